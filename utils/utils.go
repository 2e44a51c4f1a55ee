package utils

import (
	"fmt"
	"log"
	"math"
	"os"
)

func NewLog(dir, name string) *log.Logger {
	fileName := fmt.Sprintf("%s%s.log", dir, name)
	file, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		panic(err)
	}
	logger := log.New(file, "", log.LstdFlags|log.Lmicroseconds)
	return logger
}

// ToRaw converts a human amount to raw token units.
func ToRaw(amount float64, decimals uint8) uint64 {
	return uint64(amount * math.Pow10(int(decimals)))
}

// FromRaw converts raw token units to a human amount.
func FromRaw(amount uint64, decimals uint8) float64 {
	return float64(amount) / math.Pow10(int(decimals))
}

// AmountGrid spreads steps trade sizes geometrically across [min, max]
// and returns them in raw units, small to large.
func AmountGrid(min, max float64, steps uint64, decimals uint8) []uint64 {
	if steps == 0 || min <= 0 || max < min {
		return nil
	}
	amounts := make([]uint64, 0, steps)
	if steps == 1 {
		return append(amounts, ToRaw(min, decimals))
	}
	ratio := math.Pow(max/min, 1/float64(steps-1))
	amount := min
	for i := uint64(0); i < steps; i++ {
		amounts = append(amounts, ToRaw(amount, decimals))
		amount *= ratio
	}
	return amounts
}
