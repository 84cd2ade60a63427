package main

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/omega-ult/FoodSimulation/core"
)

// FieldSnapshot is sent to connected clients for visualization. The core
// exposes field read-out; the wire format lives here in the host.
type FieldSnapshot struct {
	Type     string     `json:"type"`
	Tick     int        `json:"tick"`
	SimTime  float64    `json:"simTime"`
	Dims     [3]int     `json:"dims"`
	CellSize float64    `json:"cellSize"`
	Origin   [3]float64 `json:"origin"`
	Density  []float64  `json:"density"`
	Speed    []float64  `json:"speed"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// fieldServer fans snapshots out to websocket clients. Each client gets
// its own write mutex so a slow client only stalls itself.
type fieldServer struct {
	clients      map[*websocket.Conn]*sync.Mutex
	clientsMutex sync.RWMutex
}

func newFieldServer() *fieldServer {
	return &fieldServer{clients: make(map[*websocket.Conn]*sync.Mutex)}
}

func (fs *fieldServer) start(port int) {
	http.HandleFunc("/ws", fs.handleWebSocket)
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Field server listening on http://localhost%s/ws\n", addr)
	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Printf("field server stopped: %v", err)
		}
	}()
}

func (fs *fieldServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	fs.clientsMutex.Lock()
	fs.clients[conn] = &sync.Mutex{}
	fs.clientsMutex.Unlock()
	fmt.Printf("Client connected (%d total)\n", fs.clientCount())
}

func (fs *fieldServer) clientCount() int {
	fs.clientsMutex.RLock()
	defer fs.clientsMutex.RUnlock()
	return len(fs.clients)
}

// broadcast sends the snapshot to every client, dropping the ones whose
// connection has gone away.
func (fs *fieldServer) broadcast(snap FieldSnapshot) {
	fs.clientsMutex.RLock()
	conns := make([]*websocket.Conn, 0, len(fs.clients))
	locks := make([]*sync.Mutex, 0, len(fs.clients))
	for c, mu := range fs.clients {
		conns = append(conns, c)
		locks = append(locks, mu)
	}
	fs.clientsMutex.RUnlock()

	for i, conn := range conns {
		locks[i].Lock()
		err := conn.WriteJSON(snap)
		locks[i].Unlock()
		if err != nil {
			fs.clientsMutex.Lock()
			delete(fs.clients, conn)
			fs.clientsMutex.Unlock()
			conn.Close()
		}
	}
}

// snapshotGrid packages the grid's density and speed fields.
func snapshotGrid(g *core.Grid, tick int, simTime float64) FieldSnapshot {
	n := g.CellCount()
	snap := FieldSnapshot{
		Type:     "field",
		Tick:     tick,
		SimTime:  simTime,
		Dims:     [3]int{g.Nx, g.Ny, g.Nz},
		CellSize: g.CellSize,
		Origin:   [3]float64{g.Origin.X, g.Origin.Y, g.Origin.Z},
		Density:  make([]float64, n),
		Speed:    make([]float64, n),
	}
	copy(snap.Density, g.Density)
	for i := 0; i < n; i++ {
		snap.Speed[i] = r3.Norm(g.Vel[i])
	}
	return snap
}
