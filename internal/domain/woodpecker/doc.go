// Package woodpecker implements the scheduling rules of the Woodpecker
// spaced-repetition engine.
//
// A card starts in the learning phase and climbs a short ladder of steps.
// Stepper decides where a graded card goes on that ladder. Once a card
// graduates it is scheduled by a modified SM-2 rule (ApplyReview) that grows
// its interval by the ease factor and floors the ease factor at 1.3.
// SelectDailyCards picks the learning and due reviewing cards for a day
// within the deck's capacity limits.
//
// All functions in this package are pure. Randomness enters only through the
// Shuffler interface, so a deterministic Shuffler makes selection
// reproducible in tests.
package woodpecker
