package entity

// Player describes one connection present in a room.
type Player struct {
	ConnID string `json:"connId"`
	Symbol string `json:"symbol,omitempty"`
	Role   string `json:"role"`
}

// Players returns the membership breakdown of the room, players first.
func (that *Room) Players() []Player {
	players := make([]Player, 0, len(that.Seats)+len(that.Observers))
	for _, connID := range that.Members() {
		if symbol, ok := that.SymbolOf(connID); ok {
			players = append(players, Player{ConnID: connID, Symbol: symbol, Role: RolePlayer})
			continue
		}
		players = append(players, Player{ConnID: connID, Role: RoleObserver})
	}
	return players
}
