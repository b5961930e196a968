package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/ballpit/internal/loop/config"
	"github.com/tomz197/ballpit/internal/sim"
)

// PitServer is the interface clients use to communicate with the pit server.
// Decouples the Client from the concrete Server implementation.
type PitServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	SendCommand(clientID int, cmd Command)
	GetSnapshot() *WorldSnapshot
}

// Server owns the shared world, applies viewer commands and publishes
// snapshots once per tick.
type Server struct {
	world        *sim.World
	logger       *log.Logger
	snapshot     atomic.Pointer[WorldSnapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	commandCh    chan clientCommand
	registerCh   chan *ClientHandle
	unregisterCh chan int
	done         chan struct{}
	doneOnce     sync.Once
	paused       bool
	mu           sync.RWMutex
}

// Compile-time check that Server implements PitServer.
var _ PitServer = (*Server)(nil)

// ClientHandle represents a viewer's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this viewer
	EventsCh chan ClientEvent // Events sent to the viewer (shutdown, reset)
}

// NewServer creates a server around world. A nil logger uses log.Default().
func NewServer(world *sim.World, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		world:        world,
		logger:       logger,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		commandCh:    make(chan clientCommand, 256),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		done:         make(chan struct{}),
	}
	s.publish(0)
	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	defer s.doneOnce.Do(func() { close(s.done) })

	cfg := s.world.Config()
	s.logger.Info("Pit running",
		"balls", s.world.Len(),
		"width", cfg.Width,
		"height", cfg.Height,
		"tick", config.ServerTickTime,
	)

	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Pit stopped", "tick", s.world.Tick())
			return
		default:
		}

		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		s.step(delta)

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		} else {
			s.logger.Debug("Tick overran", "elapsed", elapsed, "budget", config.ServerTickTime)
		}
	}
}

// step runs one server tick: registrations, commands, one world frame unless
// paused, then a fresh snapshot.
func (s *Server) step(delta time.Duration) {
	s.processRegistrations()
	s.applyCommands()

	s.mu.Lock()
	if !s.paused {
		s.world.Frame()
	}
	s.mu.Unlock()

	s.publish(delta)
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new viewer with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	select {
	case s.registerCh <- handle:
	case <-s.done:
	}
	return handle
}

// UnregisterClient removes a viewer from the server.
func (s *Server) UnregisterClient(clientID int) {
	select {
	case s.unregisterCh <- clientID:
	case <-s.done:
	}
}

// SendCommand queues a command from a viewer. Commands are dropped when the
// queue is full.
func (s *Server) SendCommand(clientID int, cmd Command) {
	select {
	case s.commandCh <- clientCommand{ClientID: clientID, Command: cmd}:
	default:
	}
}

// GetSnapshot returns the current world snapshot.
func (s *Server) GetSnapshot() *WorldSnapshot {
	return s.snapshot.Load()
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Info("Viewer joined", "id", handle.ID, "user", handle.Username)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.logger.Info("Viewer left", "id", clientID, "user", handle.Username)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// applyCommands drains the command queue. Commands from unknown viewers are ignored.
func (s *Server) applyCommands() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case cc := <-s.commandCh:
			handle, ok := s.clients[cc.ClientID]
			if !ok {
				continue
			}
			switch cc.Command {
			case CommandShake:
				s.world.Shake(config.ShakeStrength)
			case CommandReset:
				s.world.Reset()
				s.broadcastLocked(ClientEvent{Type: EventWorldReset})
			case CommandTogglePause:
				s.paused = !s.paused
			default:
				continue
			}
			s.logger.Debug("Command applied", "command", cc.Command, "user", handle.Username)
		default:
			return
		}
	}
}

// broadcastLocked sends ev to every viewer without blocking. Must be called with lock held.
func (s *Server) broadcastLocked(ev ClientEvent) {
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// publish stores an immutable snapshot of the world. The body slice is
// freshly allocated each tick since viewers may hold older snapshots.
func (s *Server) publish(delta time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.snapshot.Store(&WorldSnapshot{
		Bodies:   s.world.Bodies(),
		Quadtree: s.world.Quadtree(),
		Stats:    s.world.Stats(),
		Tick:     s.world.Tick(),
		Viewers:  len(s.clients),
		Paused:   s.paused,
		World:    s.world.Config().Bounds(),
		Delta:    delta,
	})
}
