package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jacentio/shoetally/kv"
	"github.com/jacentio/shoetally/sizeexpr"
)

// Notes returns the stored notes, or "" when none were saved.
func (s *Store) Notes(ctx context.Context) (string, error) {
	data, err := s.slots.Get(ctx, s.config.NotesKey)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load notes: %w", err)
	}
	return string(data), nil
}

// SetNotes replaces the stored notes.
func (s *Store) SetNotes(ctx context.Context, notes string) error {
	if err := s.slots.Put(ctx, s.config.NotesKey, []byte(notes)); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	s.markDirty()
	return nil
}

// IncludeHalfSizes returns the half-size preference. When it was never set,
// false is stored and returned.
func (s *Store) IncludeHalfSizes(ctx context.Context) (bool, error) {
	data, err := s.slots.Get(ctx, s.config.HalfSizeKey)
	if errors.Is(err, kv.ErrNotFound) {
		if err := s.SetIncludeHalfSizes(ctx, false); err != nil {
			return false, err
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load half-size preference: %w", err)
	}

	v, err := strconv.ParseBool(strings.TrimSpace(string(data)))
	if err != nil {
		s.logger.Warn("unreadable half-size preference, using false",
			zap.String("key", s.config.HalfSizeKey),
			zap.String("value", string(data)),
		)
		return false, nil
	}
	return v, nil
}

// SetIncludeHalfSizes stores the half-size preference.
func (s *Store) SetIncludeHalfSizes(ctx context.Context, include bool) error {
	if err := s.slots.Put(ctx, s.config.HalfSizeKey, []byte(strconv.FormatBool(include))); err != nil {
		return fmt.Errorf("save half-size preference: %w", err)
	}
	return nil
}

// Step returns the range step implied by the half-size preference.
func (s *Store) Step(ctx context.Context) (sizeexpr.Step, error) {
	half, err := s.IncludeHalfSizes(ctx)
	if err != nil {
		return sizeexpr.Whole, err
	}
	return sizeexpr.StepFor(half), nil
}
