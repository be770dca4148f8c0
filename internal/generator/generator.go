package generator

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hetulpatel/tiniadmin/internal/models"
)

const (
	Hours        = 24
	RecentCount  = 10
	RecentStep   = 5 * time.Minute
	AlertSubnet  = "192.168.1."
	MaxUserID    = 5
	MinLogins    = 1
	MaxLogins    = 8
	MinResponse  = 80
	MaxResponse  = 250
	MinSession   = 120
	MaxSession   = 600
	BounceRate   = 0.25
	ConvertRate  = 0.08
	AlertRate    = 0.10
	minAlertHost = 1
	maxAlertHost = 254
)

// Batch is one run's worth of synthetic activity. Hourly rows are in
// generation order, not time order.
type Batch struct {
	RunID       uuid.UUID
	GeneratedAt time.Time
	Hourly      []models.Activity
	Recent      []models.Activity
}

// Total is the number of rows the batch will insert.
func (b Batch) Total() int {
	return len(b.Hourly) + len(b.Recent)
}

// All returns hourly rows followed by the recent tail.
func (b Batch) All() []models.Activity {
	out := make([]models.Activity, 0, b.Total())
	out = append(out, b.Hourly...)
	return append(out, b.Recent...)
}

// Generator draws synthetic dashboard activity from a random source.
type Generator struct {
	rng *rand.Rand
}

// New builds a generator over src.
func New(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NewSeeded builds a deterministic generator.
func NewSeeded(seed uint64) *Generator {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate builds the 24 hourly buckets ending at now plus the recent tail.
func (g *Generator) Generate(now time.Time) Batch {
	b := Batch{
		RunID:       uuid.New(),
		GeneratedAt: now,
	}
	for h := 0; h < Hours; h++ {
		b.Hourly = g.hour(b.Hourly, now.Add(-time.Duration(h)*time.Hour))
	}
	b.Recent = make([]models.Activity, 0, RecentCount)
	for i := 0; i < RecentCount; i++ {
		b.Recent = append(b.Recent, g.activity(models.ActionPageView, "Analytics dashboard accessed", models.LoopbackIP, now.Add(-time.Duration(i)*RecentStep)))
	}
	return b
}

func (g *Generator) hour(out []models.Activity, at time.Time) []models.Activity {
	logins := g.between(MinLogins, MaxLogins)
	for i := 0; i < logins; i++ {
		out = append(out, g.activity(models.ActionLogin, "User session started", models.LoopbackIP, at))
	}
	out = append(out, g.activity(models.ActionResponseTime, strconv.Itoa(g.between(MinResponse, MaxResponse)), models.LoopbackIP, at))
	out = append(out, g.activity(models.ActionSessionDuration, strconv.Itoa(g.between(MinSession, MaxSession)), models.LoopbackIP, at))

	if g.rng.Float64() < BounceRate {
		out = append(out, g.activity(models.ActionBounce, "User left quickly", models.LoopbackIP, at))
	}
	if g.rng.Float64() < ConvertRate {
		out = append(out, g.activity(models.ActionConversion, "User completed action", models.LoopbackIP, at))
	}
	if g.rng.Float64() < AlertRate {
		ip := fmt.Sprintf("%s%d", AlertSubnet, g.between(minAlertHost, maxAlertHost))
		out = append(out, g.activity(models.ActionSecurityAlert, "Suspicious activity detected", ip, at))
	}
	return out
}

func (g *Generator) activity(action models.Action, details, ip string, at time.Time) models.Activity {
	return models.Activity{
		UserID:    int64(g.between(1, MaxUserID)),
		Action:    action,
		Details:   details,
		IPAddress: ip,
		CreatedAt: at,
	}
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}
