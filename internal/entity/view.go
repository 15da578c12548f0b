package entity

type Names struct {
	X string `json:"x"`
	O string `json:"o"`
}

// View is everything a presentation layer needs to draw the table.
type View struct {
	ID       string   `json:"id"`
	Board    Board    `json:"board"`
	Outcome  Outcome  `json:"outcome"`
	Next     Mark     `json:"next,omitempty"`
	Cursor   int      `json:"cursor"`
	Moves    []int    `json:"moves"`
	LastMove int      `json:"last_move"`
	Scores   Scores   `json:"scores"`
	Settings Settings `json:"settings"`
	Names    Names    `json:"names"`
	BotTurn  bool     `json:"bot_turn"`
}

func (that Session) View() View {
	outcome := that.Outcome()

	next := that.NextMark()
	if outcome.IsTerminal() {
		next = EmptyCell
	}

	entries := that.History.Entries()
	moves := make([]int, 0, len(entries)-1)
	for _, entry := range entries[1:] {
		moves = append(moves, entry.Move)
	}

	return View{
		ID:       that.ID,
		Board:    that.Board(),
		Outcome:  outcome,
		Next:     next,
		Cursor:   that.History.Cursor(),
		Moves:    moves,
		LastMove: that.History.Current().Move,
		Scores:   that.Scores,
		Settings: that.Settings,
		Names: Names{
			X: that.DisplayName(PlayerX),
			O: that.DisplayName(PlayerO),
		},
		BotTurn: that.IsBotTurn(),
	}
}
