package ui

import (
	"fmt"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

// Feedback is the one line shown after an attack. A sinking is worded from
// the human's side of the table whichever player fired.
func Feedback(result mb.AttackResult, byHuman bool) string {
	if result.SunkShip != nil {
		if byHuman {
			return fmt.Sprintf("You sunk my %s!", result.SunkShip.Name())
		}
		return fmt.Sprintf("Your %s was sunk!", result.SunkShip.Name())
	}

	switch result.Outcome {
	case mb.AttackOutcomeHit:
		return "Hit!"
	case mb.AttackOutcomeMiss:
		return "Miss!"
	case mb.AttackOutcomeAlreadyTargeted:
		return "Already targeted, pick another cell."
	default:
		return ""
	}
}

func feedbackColor(result mb.AttackResult) string {
	if result.Outcome == mb.AttackOutcomeMiss {
		return "white"
	}
	return "red"
}
