// Package memory implements the card-matching memory game scene.
//
// The scene runs a four-screen state machine (start, rules, game, gameover)
// on top of the kiosk engine. All of its timers live in TimerGroups it owns
// and all of its hub subscriptions are collected so Destroy can release them
// in one step.
package memory

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/kiosk"
)

// Config holds the gameplay constants. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// Symbols are the asset keys of the card faces. Each appears twice in
	// the deck.
	Symbols []string
	// CardBack is the asset key drawn for face-down cards.
	CardBack string
	// TimeBudget is the number of seconds a game starts with.
	TimeBudget int
	// MatchAward is added to the score per matched pair.
	MatchAward int
	// RevealDelay is how long both faces of a pair stay visible before the
	// pair is evaluated.
	RevealDelay time.Duration
	// Tick is the countdown period.
	Tick time.Duration
	// MenuScene is the scene Back and Main Menu switch to.
	MenuScene string
	// StyleSheet is the style file attached while the scene is live.
	StyleSheet string
	// Shuffle permutes the deck in place. Nil uses Fisher-Yates over a
	// time-seeded source.
	Shuffle func([]string)
}

// DefaultConfig returns the exhibit's memory game settings.
func DefaultConfig() Config {
	symbols := make([]string, 6)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("mem-card%d", i+1)
	}
	return Config{
		Symbols:     symbols,
		CardBack:    "mem-card-back",
		TimeBudget:  120,
		MatchAward:  10,
		RevealDelay: 800 * time.Millisecond,
		Tick:        time.Second,
		MenuScene:   "StartMenu",
		StyleSheet:  "/styles/memory.yaml",
	}
}

// Assets returns the asset keys and paths the scene preloads in Init.
func (c Config) Assets() map[string]string {
	m := map[string]string{
		"backButton":              "/pictures/backButton.webp",
		"cursor":                  "/pictures/starCatching/starCatchingCursor.webp",
		"background_game":         "/pictures/memoryGame/background_game.png",
		"background_instructions": "/pictures/memoryGame/background_instructions.png",
		"background_title":        "/pictures/memoryGame/background_title.png",
	}
	if c.CardBack != "" {
		m[c.CardBack] = "/pictures/memoryGame/memory-card-back.png"
	}
	for i, sym := range c.Symbols {
		m[sym] = fmt.Sprintf("/pictures/memoryGame/memory-card%d.png", i+1)
	}
	return m
}

// New returns a factory for the memory scene.
func New(cfg Config) kiosk.SceneFactory {
	return func(deps kiosk.Deps) kiosk.Scene {
		return newScene(deps, cfg)
	}
}

// Scene is the memory game. It implements kiosk.Scene.
type Scene struct {
	deps   kiosk.Deps
	cfg    Config
	logger *log.Logger

	state State

	root         *kiosk.Node
	screen       *kiosk.Node
	cursor       *kiosk.Cursor
	rendered     bool
	lastRendered Screen

	subs   kiosk.Subscriptions
	style  *kiosk.StyleHandle
	timers *kiosk.TimerGroup
	// game holds the countdown and the pending pair evaluation. It is
	// emptied on every transition away from the game screen.
	game      *kiosk.TimerGroup
	countdown *kiosk.Timer
	pending   *kiosk.Timer

	destroyed bool
}

func newScene(deps kiosk.Deps, cfg Config) *Scene {
	if cfg.Shuffle == nil {
		seed := uint64(time.Now().UnixNano())
		cfg.Shuffle = FisherYates(rand.New(rand.NewPCG(seed, seed>>1|1)))
	}
	if cfg.Tick <= 0 {
		cfg.Tick = time.Second
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Scene{
		deps:   deps,
		cfg:    cfg,
		logger: logger.WithPrefix("memory"),
		state:  State{Screen: ScreenStart, Matched: make(map[int]struct{})},
	}
}

// State returns the scene's game state. The caller must not modify it.
func (s *Scene) State() *State {
	return &s.state
}

// Root returns the scene's subtree, or nil before Init.
func (s *Scene) Root() *kiosk.Node {
	return s.root
}

// Init loads the scene's assets and style sheet, renders the start screen and
// subscribes to the hub.
func (s *Scene) Init(ctx context.Context) error {
	if err := s.deps.Assets.Preload(ctx, s.cfg.Assets()); err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	if s.cfg.StyleSheet != "" && s.deps.Styles != nil {
		h, err := s.deps.Styles.Load(s.deps.Assets.FS(), s.cfg.StyleSheet)
		if err != nil {
			return fmt.Errorf("memory: %w", err)
		}
		s.style = h
	}

	s.timers = s.deps.Clock.NewGroup()
	s.game = s.deps.Clock.NewGroup()

	s.root = kiosk.NewContainer("memory")
	if s.deps.Layer != nil {
		s.deps.Layer.AddChild(s.root)
	}
	s.cursor = kiosk.NewCursor(s.image("cursor"), 64)
	s.root.AddChild(s.cursor.Node())

	s.state.Screen = ScreenStart
	s.Render()

	hub := s.deps.Input
	s.subs.Add(hub.OnMove(s.handleMove))
	s.subs.Add(hub.OnClick(s.handleClick))
	s.subs.Add(hub.OnFrame(s.handleFrame))
	s.logger.Debug("initialized", "cards", len(s.cfg.Symbols)*2)
	return nil
}

// Update advances the cursor tweens.
func (s *Scene) Update(dt time.Duration) {
	if s.cursor != nil {
		s.cursor.Update(dt)
	}
}

// Render rebuilds the screen subtree when the current screen differs from
// the one last rendered.
func (s *Scene) Render() {
	if s.rendered && s.lastRendered == s.state.Screen {
		return
	}
	s.refresh()
}

// refresh rebuilds the current screen unconditionally. The game screen uses
// it for countdown ticks and card flips.
func (s *Scene) refresh() {
	if s.root == nil || s.destroyed {
		return
	}
	if s.screen != nil {
		s.screen.Dispose()
	}
	s.screen = buildScreen(view{
		state:  &s.state,
		cfg:    &s.cfg,
		vp:     s.viewport(),
		image:  s.image,
		styles: s.deps.Styles,
		act: actions{
			back:      s.toMenu,
			newGame:   func() { s.goTo(ScreenRules) },
			rulesBack: func() { s.goTo(ScreenStart) },
			play:      s.StartNewGame,
			giveUp:    func() { s.endGame(ResultLoss) },
			restart:   func() { s.goTo(ScreenStart) },
			mainMenu:  s.toMenu,
			card:      s.CardClick,
		},
	})
	s.root.AddChild(s.screen)
	s.rendered = true
	s.lastRendered = s.state.Screen
}

// Destroy cancels the scene's timers, removes its subscriptions, detaches
// its subtree and style sheet. Safe after a partial Init and idempotent.
func (s *Scene) Destroy(_ context.Context) error {
	if s.destroyed {
		return nil
	}
	s.destroyed = true
	s.subs.RemoveAll()
	if s.game != nil {
		s.game.StopAll()
	}
	if s.timers != nil {
		s.timers.StopAll()
	}
	s.countdown, s.pending = nil, nil
	if s.root != nil {
		s.root.Dispose()
	}
	s.style.Detach()
	s.style = nil
	s.logger.Debug("destroyed", "screen", s.state.Screen, "score", s.state.Score)
	return nil
}

func (s *Scene) viewport() kiosk.Viewport {
	if s.deps.Viewport == nil {
		return kiosk.Viewport{Width: 1920, Height: 1080}
	}
	return s.deps.Viewport()
}

func (s *Scene) image(key string) *ebiten.Image {
	img, err := s.deps.Assets.Get(key)
	if err != nil {
		s.logger.Warn("missing image", "key", key, "err", err)
		return nil
	}
	return img
}

// --- Screen transitions ---

func (s *Scene) goTo(screen Screen) {
	if s.destroyed {
		return
	}
	if s.state.Screen == ScreenGame && screen != ScreenGame {
		s.stopGame()
	}
	s.state.Screen = screen
	s.Render()
}

// stopGame releases the countdown and any pending pair evaluation.
func (s *Scene) stopGame() {
	s.game.StopAll()
	s.countdown, s.pending = nil, nil
}

func (s *Scene) toMenu() {
	if s.destroyed {
		return
	}
	if err := s.deps.Switcher.Switch(context.Background(), s.cfg.MenuScene); err != nil {
		s.logger.Error("switch failed", "scene", s.cfg.MenuScene, "err", err)
	}
}

// StartNewGame resets score, time and cards, arms the countdown and shows
// the game screen.
func (s *Scene) StartNewGame() {
	if s.destroyed {
		return
	}
	s.stopGame()
	s.state.Score = 0
	s.state.TimeLeft = s.cfg.TimeBudget
	s.state.Flipped = s.state.Flipped[:0]
	s.state.Matched = make(map[int]struct{})
	s.state.Cards = NewDeck(s.cfg.Symbols, s.cfg.Shuffle)
	s.state.Screen = ScreenGame
	s.countdown = s.game.Every(s.cfg.Tick, s.tick)
	s.refresh()
}

func (s *Scene) tick() {
	s.state.TimeLeft--
	if s.state.TimeLeft <= 0 {
		s.state.TimeLeft = 0
		s.endGame(ResultLoss)
		return
	}
	s.refresh()
}

func (s *Scene) endGame(result Result) {
	if s.destroyed || s.state.Screen != ScreenGame {
		return
	}
	s.state.Result = result
	s.logger.Info("game over", "win", result == ResultWin, "score", s.state.Score, "left", s.state.TimeLeft)
	s.goTo(ScreenGameOver)
}

// CardClick flips the card at index if it may be flipped. Clicks on flipped
// or matched cards, and clicks while a pair is waiting, are ignored.
func (s *Scene) CardClick(index int) {
	if s.destroyed || s.state.Screen != ScreenGame {
		return
	}
	if index < 0 || index >= len(s.state.Cards) {
		return
	}
	card := &s.state.Cards[index]
	if card.Flipped || card.Matched || len(s.state.Flipped) >= 2 {
		return
	}
	card.Flipped = true
	s.state.Flipped = append(s.state.Flipped, card.ID)
	s.refresh()
	if len(s.state.Flipped) == 2 {
		s.pending = s.game.AfterFunc(s.cfg.RevealDelay, s.checkMatch)
	}
}

func (s *Scene) checkMatch() {
	s.pending = nil
	if len(s.state.Flipped) != 2 {
		return
	}
	a, b := &s.state.Cards[s.state.Flipped[0]], &s.state.Cards[s.state.Flipped[1]]
	matched := a.Type == b.Type
	if matched {
		a.Matched, b.Matched = true, true
		s.state.Matched[a.ID] = struct{}{}
		s.state.Matched[b.ID] = struct{}{}
		s.state.Score += s.cfg.MatchAward
	} else {
		a.Flipped, b.Flipped = false, false
	}
	s.state.Flipped = s.state.Flipped[:0]
	if matched && s.state.AllMatched() {
		s.endGame(ResultWin)
		return
	}
	s.refresh()
}

// --- Hub handlers ---

func (s *Scene) handleMove(ev kiosk.GestureEvent) {
	s.cursor.Move(ev, s.viewport())
}

func (s *Scene) handleClick(ev kiosk.GestureEvent) {
	target := kiosk.ResolveClick(s.root, s.viewport(), ev.X, ev.Y)
	if s.destroyed || target.Activated {
		return
	}
	if target.CardIndex >= 0 {
		s.CardClick(target.CardIndex)
	}
}

func (s *Scene) handleFrame(ev kiosk.GestureEvent) {
	s.cursor.Frame(ev)
}
