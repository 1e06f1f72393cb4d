package ingest

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mikey/graph-spam-filter/internal/core"
)

// Generator produces synthetic email datasets with realistic legitimate
// traffic and injected spam patterns, for demos and tests. A fixed seed
// reproduces the same dataset.
type Generator struct {
	rng  *rand.Rand
	base time.Time
}

// NewGenerator creates a generator seeded for reproducibility.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		base: time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC),
	}
}

// Legitimate generates balanced two-way traffic: each sender mails a small
// circle of recipients at a steady rate spread over days.
func (g *Generator) Legitimate(numSenders, emailsPerSender, recipientsPerSender int) []core.EdgeRecord {
	var records []core.EdgeRecord
	for i := 0; i < numSenders; i++ {
		sender := fmt.Sprintf("user%d@example.com", i)
		for j := 0; j < recipientsPerSender; j++ {
			recipient := fmt.Sprintf("user%d@example.com", g.rng.Intn(numSenders))
			if recipient == sender {
				continue
			}
			count := 1 + emailsPerSender/recipientsPerSender
			for k := 0; k < count; k++ {
				// Steady cadence: roughly one email a day with jitter.
				ts := g.base.Add(time.Duration(k)*24*time.Hour +
					time.Duration(g.rng.Intn(120))*time.Minute)
				records = append(records, core.EdgeRecord{
					Sender:    sender,
					Recipient: recipient,
					Weight:    1,
					Timestamp: ts,
				})
			}
		}
	}
	return records
}

// SpamBlast generates broadcast spam: each spammer hammers a few recipients
// with high volume compressed into a tight burst window.
func (g *Generator) SpamBlast(numSpammers, recipientsPerSpammer, emailsPerRecipient int) []core.EdgeRecord {
	var records []core.EdgeRecord
	for i := 0; i < numSpammers; i++ {
		sender := fmt.Sprintf("spammer%d@malicious.example", i)
		burstStart := g.base.Add(time.Duration(g.rng.Intn(72)) * time.Hour)
		for j := 0; j < recipientsPerSpammer; j++ {
			recipient := fmt.Sprintf("victim%d@example.com", g.rng.Intn(recipientsPerSpammer*3+1))
			for k := 0; k < emailsPerRecipient; k++ {
				// Entire blast lands inside a few minutes.
				ts := burstStart.Add(time.Duration(g.rng.Intn(300)) * time.Second)
				records = append(records, core.EdgeRecord{
					Sender:    sender,
					Recipient: recipient,
					Weight:    1,
					Timestamp: ts,
				})
			}
		}
	}
	return records
}

// Dataset combines legitimate and spam traffic into one shuffled dataset.
func (g *Generator) Dataset(numSenders, numSpammers int) []core.EdgeRecord {
	records := g.Legitimate(numSenders, 20, 5)
	records = append(records, g.SpamBlast(numSpammers, 4, 25)...)
	g.rng.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
	return records
}
