package app

import "lora/internal/domain"

// NumCycles is how many times the round sequence is played in one game.
const NumCycles = 4

// CycleStartingSeats fixes the seat that leads the first round of each cycle.
var CycleStartingSeats = [NumCycles]domain.Seat{1, 2, 3, 0}
