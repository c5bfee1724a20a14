package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pthm-cable/flowfields/renderer"
)

// RunHeadless starts the loop and pumps it without a display until
// maxFrames frames have run (0 = until ctx is done). pumpsPerUpdate pumps run
// back to back per iteration, mirroring a host that refreshes faster.
func (s *Session) RunHeadless(ctx context.Context, maxFrames uint64, pumpsPerUpdate int) error {
	if pumpsPerUpdate < 1 {
		pumpsPerUpdate = 1
	}
	if err := s.Start(ctx); err != nil {
		return err
	}

	reached := func() bool {
		if maxFrames == 0 || s.flow.Frames() < maxFrames {
			return false
		}
		slog.Info("max frames reached", "frames", s.flow.Frames())
		s.Stop()
		return true
	}

	// Start already ran the first frame
	if reached() {
		return nil
	}
	for {
		for i := 0; i < pumpsPerUpdate; i++ {
			if s.Pump() == 0 {
				// Nothing re-scheduled: the loop was stopped
				return ctx.Err()
			}
			if reached() {
				return nil
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// ErrNoImage is returned when the trail surface cannot be exported.
var ErrNoImage = errors.New("trail surface does not support image export")

// WritePNG writes the trail surface to path. Only software trails can be
// exported.
func (s *Session) WritePNG(path string) error {
	soft, ok := s.trail.(*renderer.SoftwareTrail)
	if !ok {
		return ErrNoImage
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := soft.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
