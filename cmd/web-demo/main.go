package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pocketsim/pocket-sim-go/internal/carddb"
	"github.com/pocketsim/pocket-sim-go/internal/deck"
	"github.com/pocketsim/pocket-sim-go/internal/game"
	"github.com/pocketsim/pocket-sim-go/internal/game/energy"
	"github.com/pocketsim/pocket-sim-go/internal/policy"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for demo
	},
}

type PokemonView struct {
	CardID         string   `json:"card_id"`
	HP             int      `json:"hp"`
	MaxHP          int      `json:"max_hp"`
	IsEx           bool     `json:"is_ex"`
	AttachedEnergy []string `json:"attached_energy"`
	Status         string   `json:"status,omitempty"`
}

type PlayerView struct {
	DeckCount    int           `json:"deck_count"`
	HandCount    int           `json:"hand_count"`
	DiscardCount int           `json:"discard_count"`
	PrizePoints  int           `json:"prize_points"`
	Active       *PokemonView  `json:"active"`
	Bench        []PokemonView `json:"bench"`
	PendingUnits []string      `json:"pending_units"`
}

type MatchView struct {
	MatchID       string       `json:"match_id"`
	Turn          int          `json:"turn"`
	CurrentPlayer int          `json:"current_player"`
	Phase         string       `json:"phase"`
	PreviewEnergy string       `json:"preview_energy,omitempty"`
	Terminal      bool         `json:"terminal"`
	Winner        int          `json:"winner"`
	Players       []PlayerView `json:"players"`
}

type WSMessage struct {
	Type    string `json:"type"`
	MatchID string `json:"match_id,omitempty"`
	Seed    int64  `json:"seed,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type Client struct {
	conn    *websocket.Conn
	send    chan []byte
	matchID string
}

// match is one live demo battle owned by the hub.
type match struct {
	state *game.BattleState
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	matches    map[string]*match

	sim   *game.Simulator
	pol   policy.Policy
	deckA *deck.Deck
	deckB *deck.Deck
}

func newHub(sim *game.Simulator, deckA, deckB *deck.Deck) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		matches:    make(map[string]*match),
		sim:        sim,
		pol:        policy.NewBaseline(),
		deckA:      deckA,
		deckB:      deckB,
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("Client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Client unregistered")
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

func (h *Hub) startMatch(seed int64) (string, *game.BattleState, error) {
	st, err := h.sim.Reset(game.MatchConfig{
		P0Deck:        h.deckA.Cards,
		P0EnergyTypes: h.deckA.EnergyTypes,
		P1Deck:        h.deckB.Cards,
		P1EnergyTypes: h.deckB.EnergyTypes,
		Seed:          seed,
	})
	if err != nil {
		return "", nil, err
	}

	matchID := uuid.New().String()
	h.mu.Lock()
	h.matches[matchID] = &match{state: st}
	h.mu.Unlock()
	return matchID, st, nil
}

// advance steps one phase with the baseline policy driving Main and Attack.
func (h *Hub) advance(m *match) {
	st := m.state
	if st.Terminal {
		return
	}
	switch st.Phase {
	case game.PhaseMain, game.PhaseAttack:
		h.sim.Step(st, h.pol.ChooseAction(h.sim, st))
	default:
		h.sim.Step(st, game.Pass)
	}
}

func (h *Hub) handleMessage(client *Client, msg WSMessage) {
	log.Printf("Received message: %s", msg.Type)

	switch msg.Type {
	case "start_match":
		seed := msg.Seed
		if seed == 0 {
			seed = 123
		}
		matchID, st, err := h.startMatch(seed)
		if err != nil {
			log.Printf("Failed to start match: %v", err)
			return
		}
		client.matchID = matchID

		response, _ := json.Marshal(WSMessage{
			Type:    "match_state",
			MatchID: matchID,
			Data:    viewOf(matchID, st),
		})
		client.send <- response

	case "step":
		h.mu.Lock()
		m := h.matches[client.matchID]
		if m != nil {
			h.advance(m)
		}
		h.mu.Unlock()

		h.broadcastMatchState(client.matchID)

	case "run_to_end":
		h.mu.Lock()
		m := h.matches[client.matchID]
		if m != nil {
			for !m.state.Terminal {
				h.advance(m)
			}
		}
		h.mu.Unlock()

		h.broadcastMatchState(client.matchID)
	}
}

func (h *Hub) broadcastMatchState(matchID string) {
	h.mu.RLock()
	m := h.matches[matchID]
	h.mu.RUnlock()

	if m == nil {
		return
	}

	response, _ := json.Marshal(WSMessage{
		Type:    "match_state",
		MatchID: matchID,
		Data:    viewOf(matchID, m.state),
	})

	// Send to all clients watching this match
	for client := range h.clients {
		if client.matchID == matchID {
			select {
			case client.send <- response:
			default:
			}
		}
	}
}

func viewOf(matchID string, st *game.BattleState) MatchView {
	view := MatchView{
		MatchID:       matchID,
		Turn:          st.Turn,
		CurrentPlayer: st.CurrentPlayer,
		Phase:         st.Phase.String(),
		PreviewEnergy: string(st.PreviewNextEnergy),
		Terminal:      st.Terminal,
		Winner:        st.Winner,
	}
	for _, ps := range st.Players {
		pv := PlayerView{
			DeckCount:    len(ps.Deck),
			HandCount:    len(ps.Hand),
			DiscardCount: len(ps.Discard),
			PrizePoints:  ps.PrizePoints,
			Active:       pokemonView(ps.Active),
			PendingUnits: energyStrings(ps.EnergyZone.AvailableToAttach),
		}
		for _, b := range ps.Bench {
			if v := pokemonView(b); v != nil {
				pv.Bench = append(pv.Bench, *v)
			}
		}
		view.Players = append(view.Players, pv)
	}
	return view
}

func pokemonView(p *game.PokemonInstance) *PokemonView {
	if p == nil {
		return nil
	}
	return &PokemonView{
		CardID:         p.CardID,
		HP:             p.HP,
		MaxHP:          p.MaxHP,
		IsEx:           p.IsEx,
		AttachedEnergy: energyStrings(p.AttachedEnergy),
		Status:         string(p.Status),
	}
}

func energyStrings(types []energy.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		hub.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}

func serveWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
	}

	hub.register <- client

	go client.writePump()
	go client.readPump(hub)
}

func main() {
	db, err := carddb.Load("data/cards.json", nil)
	if err != nil {
		log.Fatalf("Failed to load card database: %v", err)
	}

	deckA, err := deck.LoadFile("data/decks/leeks.json")
	if err != nil {
		log.Fatalf("Failed to load deck: %v", err)
	}
	deckB, err := deck.LoadFile("data/decks/chinchillas.json")
	if err != nil {
		log.Fatalf("Failed to load deck: %v", err)
	}

	sim := game.NewSimulator(game.DefaultRules(), db, nil)
	hub := newHub(sim, deckA, deckB)
	go hub.run()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, w, r)
	})

	log.Println("WebSocket server starting on :8080")
	log.Println("WebSocket endpoint: ws://localhost:8080/ws")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}
