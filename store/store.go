package store

import (
	"context"
)

// Store persists candidates and submissions off the hot path; writers
// push into buffered channels and never wait on the database.
type Store struct {
	ctx           context.Context
	candidateChan chan *CandidateRecord
	submittedChan chan *SubmittedTrade
	dao           *Dao
}

func NewStore(ctx context.Context, url, scheme, user, passwd string) *Store {
	s := &Store{
		ctx:           ctx,
		candidateChan: make(chan *CandidateRecord, 32),
		submittedChan: make(chan *SubmittedTrade, 32),
	}
	s.dao = NewDao(url, scheme, user, passwd)
	return s
}

func (s *Store) Start() {
	go s.store()
}

func (s *Store) Stop() {

}

func (s *Store) store() {
	for {
		select {
		case record := <-s.candidateChan:
			s.dao.SaveCandidate(record)
		case trade := <-s.submittedChan:
			s.dao.SaveSubmittedTrade(trade)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Store) StoreCandidate(record *CandidateRecord) {
	select {
	case s.candidateChan <- record:
	default:
	}
}

func (s *Store) StoreSubmittedTrade(trade *SubmittedTrade) {
	select {
	case s.submittedChan <- trade:
	default:
	}
}

func (s *Store) GetCandidate(id uint64) ([]*CandidateRecord, error) {
	return s.dao.SelectCandidate(id)
}

func (s *Store) GetSubmittedTrade(id uint64) ([]*SubmittedTrade, error) {
	return s.dao.SelectSubmittedTrade(id)
}
