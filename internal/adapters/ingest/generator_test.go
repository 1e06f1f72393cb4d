package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorIsReproducible(t *testing.T) {
	a := NewGenerator(42).Dataset(20, 2)
	b := NewGenerator(42).Dataset(20, 2)
	assert.Equal(t, a, b)

	c := NewGenerator(7).Dataset(20, 2)
	assert.NotEqual(t, a, c)
}

func TestGeneratorLegitimateTraffic(t *testing.T) {
	records := NewGenerator(1).Legitimate(10, 20, 5)
	require.NotEmpty(t, records)

	for _, r := range records {
		assert.Equal(t, 1, r.Weight)
		assert.False(t, r.Timestamp.IsZero())
		assert.NotEqual(t, r.Sender, r.Recipient, "no self-mail in legitimate traffic")
		assert.True(t, strings.HasSuffix(r.Sender, "@example.com"))
	}
}

func TestGeneratorSpamBlast(t *testing.T) {
	records := NewGenerator(1).SpamBlast(2, 4, 25)
	require.NotEmpty(t, records)

	// Each spammer's entire blast fits inside its five minute window.
	firstSeen := map[string]int64{}
	for _, r := range records {
		assert.True(t, strings.HasSuffix(r.Sender, "@malicious.example"))
		ts := r.Timestamp.Unix()
		if start, ok := firstSeen[r.Sender]; !ok || ts < start {
			firstSeen[r.Sender] = ts
		}
	}
	for _, r := range records {
		assert.LessOrEqual(t, r.Timestamp.Unix()-firstSeen[r.Sender], int64(300),
			"sender %s burst exceeds the window", r.Sender)
	}

	assert.Len(t, firstSeen, 2)
}

func TestGeneratorDatasetMixesTraffic(t *testing.T) {
	records := NewGenerator(3).Dataset(15, 2)

	spam, legit := 0, 0
	for _, r := range records {
		if strings.HasSuffix(r.Sender, "@malicious.example") {
			spam++
		} else {
			legit++
		}
	}
	assert.Greater(t, spam, 0)
	assert.Greater(t, legit, 0)
}
