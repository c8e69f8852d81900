package battle

// Event is one unit of the battle stream protocol, serialized as one
// JSON object per line. While a verse is still being generated the
// rapper field stays empty: attribution is only known once the turn
// resolves against session state.
type Event struct {
	Verse    string `json:"verse"`
	Rapper   string `json:"rapper"`
	Complete bool   `json:"complete"`
	Round    int    `json:"round"`
	Error    string `json:"error,omitempty"`
	BattleID string `json:"battle_id,omitempty"`
}
