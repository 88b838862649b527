// Package ident generates process-unique string identifiers for board
// entities (projects, tasks, columns).
package ident

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// New returns an identifier unique among all values generated in this
// process. It prefers a random UUID; when the strong random source is
// unavailable it falls back to a time-based composite that is still
// collision-resistant for local use.
func New() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fallback()
	}
	return id.String()
}

func fallback() string {
	now := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return fmt.Sprintf("id-%s-%s", now, randomBase36(8))
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}
