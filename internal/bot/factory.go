package bot

import (
	"fmt"

	"lora/internal/domain"
)

// NewBrain creates the strategy for a round kind.
func NewBrain(kind domain.RoundKind) (Brain, error) {
	switch kind {
	case domain.RoundTricks:
		return &TricksBot{}, nil
	case domain.RoundHearts:
		return &HeartsBot{}, nil
	case domain.RoundQueens:
		return NewQueensBot(), nil
	case domain.RoundKing:
		return &KingBot{}, nil
	case domain.RoundSolitaire:
		return &BuildingBot{}, nil
	default:
		return nil, fmt.Errorf("unknown round kind: %q", kind)
	}
}
