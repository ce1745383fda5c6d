package quiz

import (
	"context"
	"log/slog"
)

// Burst describes one confetti emission.
type Burst struct {
	Particles int      `json:"particleCount"`
	Angle     int      `json:"angle,omitempty"`
	Spread    int      `json:"spread"`
	Origin    Origin   `json:"origin"`
	DelayMS   int      `json:"delay,omitempty"`
	Colors    []string `json:"colors"`
}

// Origin is the emission point as a fraction of the viewport.
type Origin struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
}

// Celebrator renders decorative effects. Implementations must not block.
type Celebrator interface {
	Celebrate(ctx context.Context, bursts ...Burst) error
}

// Nop is a Celebrator that does nothing.
type Nop struct{}

// Celebrate implements Celebrator.
func (Nop) Celebrate(context.Context, ...Burst) error { return nil }

func at(v float64) *float64 { return &v }

// CenterBurst is the first effect on reaching the results.
func CenterBurst() Burst {
	return Burst{
		Particles: 100,
		Spread:    70,
		Origin:    Origin{Y: at(0.6)},
		Colors:    []string{"#4F46E5", "#7C3AED", "#EC4899", "#8B5CF6"},
	}
}

// SideBursts are the two delayed cannons from the left and right edges.
func SideBursts() []Burst {
	colors := []string{"#4F46E5", "#7C3AED", "#EC4899"}
	return []Burst{
		{Particles: 50, Angle: 60, Spread: 55, Origin: Origin{X: at(0)}, DelayMS: 250, Colors: colors},
		{Particles: 50, Angle: 120, Spread: 55, Origin: Origin{X: at(1)}, DelayMS: 400, Colors: colors},
	}
}

// Cheer fires the two celebration calls made on entering the results stage.
// Failures are logged and dropped.
func Cheer(ctx context.Context, c Celebrator) {
	if c == nil {
		return
	}
	if err := c.Celebrate(ctx, CenterBurst()); err != nil {
		slog.Debug("celebration failed", "error", err)
	}
	if err := c.Celebrate(ctx, SideBursts()...); err != nil {
		slog.Debug("celebration failed", "error", err)
	}
}
