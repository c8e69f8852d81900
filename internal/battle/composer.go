package battle

import "fmt"

// composePrompt builds the instruction block for the given rapper's next
// verse: role instructions plus either first-verse framing or response
// framing around the immediately preceding verse. Pure read of session
// state; the caller must hold the session mutex.
func composePrompt(s *Session, rapper string) string {
	opponent := s.RapperB
	if rapper == s.RapperB {
		opponent = s.RapperA
	}

	head := fmt.Sprintf(rapperInstructions, rapper, opponent, s.currentRound, s.TotalRounds)

	if len(s.verses) == 0 {
		return head + "\n\n" + firstVerseInstructions
	}

	previous := s.verses[len(s.verses)-1]
	return head + "\n\n" + fmt.Sprintf(responseVerseInstructions, previous.Content)
}
