package loop

import (
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"

	"github.com/tomz197/makemelaugh/internal/loop/config"
	"github.com/tomz197/makemelaugh/internal/object"
	"github.com/tomz197/makemelaugh/internal/physics"
)

// GameState represents the current game phase.
type GameState int

const (
	StateAttract  GameState = iota // Title screen with idle animation
	StateStarting                  // "Level N" card
	StatePlaying                   // Active gameplay
	StateGameOver                  // Result screen
)

func (s GameState) String() string {
	switch s {
	case StateAttract:
		return "attract"
	case StateStarting:
		return "starting"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Audio plays the laugh sting at a pitch multiplier around 1.0.
type Audio interface {
	Sting(pitch float64)
}

// ScoreKeeper holds the best score for the process lifetime.
type ScoreKeeper interface {
	HighScore() int
	// Submit records a finished run. It returns true if score strictly
	// beat the previous high score.
	Submit(name string, score int) bool
}

// Recorder receives a snapshot at the end of every frame.
type Recorder interface {
	Record(s *Snapshot) error
}

// Deps are the world's collaborators. Nil fields get working defaults.
type Deps struct {
	Clock    Clock
	Audio    Audio
	Scores   ScoreKeeper
	Recorder Recorder
	Logger   *log.Logger
	Rand     *rand.Rand
	Player   string
}

// World is one player's game: state machine, meter, body parts and the
// physics space they play in.
type World struct {
	cfg  *config.Config
	deps Deps
	log  *log.Logger
	rng  *rand.Rand

	space   *physics.Space
	spawner *object.RaySpawner
	item    *object.Item
	eye     *object.Eye
	screen  object.Screen

	state      GameState
	stateStart int64
	now        int64
	frames     int64

	meter      Meter
	mouth      Channel
	lungs      Channel
	phaseSpeed float64

	level       int
	subLevel    int
	subLevelEnd int64
	gameStart   int64
	score       int
	newHigh     bool
	debug       bool

	title         object.Label
	subtitle      object.Label
	ghostsVisible bool

	funnyHits    int
	notFunnyHits int
}

// NewWorld creates a world in the attract state.
func NewWorld(cfg *config.Config, deps Deps) *World {
	if deps.Clock == nil {
		deps.Clock = NewMonotonicClock()
	}
	if deps.Audio == nil {
		deps.Audio = silentAudio{}
	}
	if deps.Scores == nil {
		deps.Scores = &memoryScores{}
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	layout := cfg.Layout
	itemStart := cp.Vector{X: layout.Item.X, Y: layout.Item.Y}

	w := &World{
		cfg:     cfg,
		deps:    deps,
		log:     deps.Logger,
		rng:     deps.Rand,
		space:   physics.NewSpace(cfg.Physics, itemStart),
		spawner: object.NewRaySpawner(cfg.Rays, deps.Rand),
		item:    object.NewItem(itemStart),
		eye:     object.NewEye(cp.Vector{X: layout.Eye.X, Y: layout.Eye.Y}),
		screen:  object.NewScreen(cfg.Screen.Width, cfg.Screen.Height),
		meter:   NewMeter(cfg.Meter),
		mouth:   Channel{Actual: math.Pi / 4, Target: math.Pi / 8},
		lungs:   Channel{Actual: 1, Target: 1},
	}
	w.space.OnContact(w.resolveContact)
	w.setupSpeeds()

	w.now = deps.Clock.Micros()
	w.state = StateAttract
	w.stateStart = w.now
	w.enterAttract(StateAttract)
	return w
}

// State returns the current game phase.
func (w *World) State() GameState {
	return w.state
}

// Now returns the clock value read at the start of the last frame.
func (w *World) Now() int64 {
	return w.now
}

// Debug reports whether debug mode is on.
func (w *World) Debug() bool {
	return w.debug
}

// difficulty drives tolerance, ray cadence and ray speed.
func (w *World) difficulty() int {
	if w.cfg.Rules.Difficulty == config.DifficultySubLevel {
		return w.subLevel
	}
	return w.level
}

// setupSpeeds recomputes the target phase speed for the current level.
func (w *World) setupSpeeds() {
	t := w.cfg.Tracking
	w.phaseSpeed = t.PhaseSpeedBase +
		t.PhaseSpeedPerLevel*float64(w.level) +
		t.PhaseSpeedPerSubLevel*float64(w.subLevel)
}

// sting plays the laugh at a random pitch in [0.5, 1.5).
func (w *World) sting() {
	pitch := float64(w.rng.Intn(200)+100) / 200
	w.deps.Audio.Sting(pitch)
}

type silentAudio struct{}

func (silentAudio) Sting(float64) {}

// memoryScores is the ScoreKeeper used when none is injected.
type memoryScores struct {
	mu   sync.Mutex
	high int
}

func (m *memoryScores) HighScore() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.high
}

func (m *memoryScores) Submit(_ string, score int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if score > m.high {
		m.high = score
		return true
	}
	return false
}
