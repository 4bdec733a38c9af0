package game

// Participant is a connected player. It outlives rounds and is removed on
// disconnect.
type Participant struct {
	ID    string
	Name  string
	Chips int
}

// PlayerInfo is the public roster entry
type PlayerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Chips int    `json:"chips"`
}

// Roster keeps participants in join order
type Roster struct {
	order []string
	byID  map[string]*Participant
}

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{byID: make(map[string]*Participant)}
}

// Add registers a participant; it reports false if the id is taken.
func (r *Roster) Add(p *Participant) bool {
	if _, exists := r.byID[p.ID]; exists {
		return false
	}
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	return true
}

// Get returns the participant with the given id, or nil
func (r *Roster) Get(id string) *Participant {
	return r.byID[id]
}

// Remove drops a participant and returns it, or nil if it was not present
func (r *Roster) Remove(id string) *Participant {
	p, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byID, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p
}

// Len returns the number of participants
func (r *Roster) Len() int {
	return len(r.order)
}

// List returns the public view of every participant in join order
func (r *Roster) List() []PlayerInfo {
	players := make([]PlayerInfo, 0, len(r.order))
	for _, id := range r.order {
		p := r.byID[id]
		players = append(players, PlayerInfo{ID: p.ID, Name: p.Name, Chips: p.Chips})
	}
	return players
}
