package store

// CandidateRecord is a discovered opportunity, either from the geyser
// watcher or the polling scanner.
type CandidateRecord struct {
	Id        uint64 `gorm:"primaryKey;type:bigint(20);not null"`
	Source    string `gorm:"type:varchar(16);not null"`
	BaseMint  string `gorm:"type:varchar(48);not null"`
	QuoteMint string `gorm:"type:varchar(48);not null"`
	Amount    uint64 `gorm:"type:bigint(20);not null"`
	OutAmount uint64 `gorm:"type:bigint(20);not null"`
	Profit    int64  `gorm:"type:bigint(20);not null"`
	Venues    string `gorm:"type:varchar(256);not null"`
	Trigger   string `gorm:"type:varchar(120);not null"`
}

// SubmittedTrade is one executor submission for a built transaction.
type SubmittedTrade struct {
	Id           uint64 `gorm:"primaryKey;type:bigint(20);not null"`
	ExecuteId    int    `gorm:"primaryKey;type:bigint(20);not null"`
	SendTime     uint64 `gorm:"type:bigint(20);not null"`
	ResponseTime uint64 `gorm:"type:bigint(20);not null"`
	Signature    string `gorm:"type:varchar(120);not null"`
}
