package memory

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/kiosk"
)

const (
	textRules = "Okreći po dvije kartice i pronađi sve iste parove. " +
		"Ako se ne podudaraju, zatvaraju se. Zapamti gdje se nalaze i otkrij sve parove!"
	textLoss = "Tvoje vrijeme je isteklo. Nažalost, nisi uspio pronaći sve parove. " +
		"Pokušaj ponovo, siguran sam da ćeš uspjeti!"
	textWin = "Čestitam! Pronašao si sve parove kartica sa Baltazarovim stvarima!"
)

// Fallback palette used when no attached style sheet defines a class.
var (
	defaultButton     = kiosk.Color{R: 0.96, G: 0.62, B: 0.16, A: 1}
	defaultButtonText = kiosk.ColorWhite
	defaultText       = kiosk.Color{R: 0.16, G: 0.12, B: 0.32, A: 1}
	defaultPanel      = kiosk.Color{R: 1, G: 1, B: 1, A: 0.85}
)

// actions are the callbacks screen nodes invoke.
type actions struct {
	back      func()
	newGame   func()
	rulesBack func()
	play      func()
	giveUp    func()
	restart   func()
	mainMenu  func()
	card      func(index int)
}

// view is everything a screen builder reads.
type view struct {
	state  *State
	cfg    *Config
	vp     kiosk.Viewport
	image  func(key string) *ebiten.Image
	styles *kiosk.Styles
	act    actions
}

func (v view) color(class string, fallback kiosk.Color) kiosk.Color {
	if v.styles == nil {
		return fallback
	}
	return v.styles.Color(class, fallback)
}

func (v view) size(class string, fallback float64) float64 {
	if v.styles == nil {
		return fallback
	}
	return v.styles.Size(class, fallback)
}

// buildScreen returns the subtree for the state's current screen.
func buildScreen(v view) *kiosk.Node {
	switch v.state.Screen {
	case ScreenRules:
		return buildRules(v)
	case ScreenGame:
		return buildGame(v)
	case ScreenGameOver:
		return buildGameOver(v)
	default:
		return buildStart(v)
	}
}

func (v view) background(key string) *kiosk.Node {
	return kiosk.NewSprite("background", v.image(key), float64(v.vp.Width), float64(v.vp.Height))
}

func (v view) button(name, label string, fn func()) *kiosk.Node {
	w := float64(v.vp.Width) * v.size("button.width", 0.22)
	h := float64(v.vp.Height) * v.size("button.height", 0.1)
	b := kiosk.NewButton(name, label, v.color("button", defaultButton), w, h, func(kiosk.ClickContext) { fn() })
	if lbl := b.Find(name + ".label"); lbl != nil {
		lbl.Color = v.color("button.text", defaultButtonText)
	}
	return b
}

func (v view) label(name, content string, size, w, h float64) *kiosk.Node {
	t := kiosk.NewText(name, content, size, w, h)
	t.Color = v.color("text", defaultText)
	t.TextAlign = kiosk.TextAlignCenter
	return t
}

func (v view) backButton(fn func()) *kiosk.Node {
	size := float64(v.vp.Height) * 0.1
	b := kiosk.NewSprite("back", v.image("backButton"), size, size)
	b.Role = kiosk.RoleButton
	b.Interactable = true
	b.OnClick = func(kiosk.ClickContext) { fn() }
	b.X, b.Y = size*0.3, size*0.3
	return b
}

// centerX places n horizontally centered at height y.
func (v view) centerX(n *kiosk.Node, y float64) *kiosk.Node {
	n.X = (float64(v.vp.Width) - n.Width) / 2
	n.Y = y
	return n
}

func buildStart(v view) *kiosk.Node {
	W, H := float64(v.vp.Width), float64(v.vp.Height)
	root := kiosk.NewContainer("screen.start")
	root.AddChild(v.background("background_title"))
	root.AddChild(v.backButton(v.act.back))

	title := v.label("title", "Memory", v.size("title", H*0.12), W, H*0.2)
	title.Color = v.color("title", defaultText)
	root.AddChild(v.centerX(title, H*0.2))
	root.AddChild(v.centerX(v.button("newGame", "Nova Igra", v.act.newGame), H*0.6))
	return root
}

func buildRules(v view) *kiosk.Node {
	W, H := float64(v.vp.Width), float64(v.vp.Height)
	root := kiosk.NewContainer("screen.rules")
	root.AddChild(v.background("background_instructions"))
	root.AddChild(v.backButton(v.act.rulesBack))

	panel := kiosk.NewRect("panel", v.color("panel", defaultPanel), W*0.6, H*0.45)
	root.AddChild(v.centerX(panel, H*0.15))
	panel.AddChild(v.label("heading", "Upute", H*0.06, panel.Width, H*0.1))
	body := v.label("rules", textRules, H*0.035, panel.Width*0.9, panel.Height*0.7)
	body.X, body.Y = panel.Width*0.05, H*0.12
	panel.AddChild(body)

	root.AddChild(v.centerX(v.button("play", "Igraj", v.act.play), H*0.7))
	return root
}

func buildGame(v view) *kiosk.Node {
	W, H := float64(v.vp.Width), float64(v.vp.Height)
	root := kiosk.NewContainer("screen.game")
	root.AddChild(v.background("background_game"))

	giveUp := v.button("giveUp", "Odustani", v.act.giveUp)
	giveUp.X, giveUp.Y = W*0.03, H*0.04
	root.AddChild(giveUp)

	hud := H * 0.05
	score := v.label("score", "Rezultat: "+strconv.Itoa(v.state.Score), hud, W*0.25, H*0.1)
	score.X, score.Y = W*0.4, H*0.04
	root.AddChild(score)
	clock := v.label("time", "Vrijeme: "+formatTime(v.state.TimeLeft), hud, W*0.25, H*0.1)
	clock.X, clock.Y = W*0.7, H*0.04
	root.AddChild(clock)

	root.AddChild(buildGrid(v, W*0.1, H*0.2, W*0.8, H*0.75))
	return root
}

// buildGrid lays the cards out in up to six columns inside the given area.
func buildGrid(v view, x, y, w, h float64) *kiosk.Node {
	grid := kiosk.NewContainer("grid")
	grid.X, grid.Y = x, y
	n := len(v.state.Cards)
	if n == 0 {
		return grid
	}
	cols := min(n, 6)
	rows := (n + cols - 1) / cols
	gap := 0.04
	cell := math.Min(w/float64(cols), h/float64(rows))
	side := cell * (1 - gap)
	offX := (w - cell*float64(cols)) / 2
	offY := (h - cell*float64(rows)) / 2

	for i, c := range v.state.Cards {
		key := v.cfg.CardBack
		if c.Flipped || c.Matched {
			key = c.Type
		}
		card := kiosk.NewSprite(fmt.Sprintf("card%d", c.ID), v.image(key), side, side)
		card.Role = kiosk.RoleCard
		card.Interactable = true
		card.SetData("index", strconv.Itoa(c.ID))
		card.SetData("type", c.Type)
		if c.Matched {
			card.Alpha = 0.6
		}
		idx := i
		card.OnClick = func(kiosk.ClickContext) { v.act.card(idx) }
		card.X = offX + float64(i%cols)*cell + cell*gap/2
		card.Y = offY + float64(i/cols)*cell + cell*gap/2
		grid.AddChild(card)
	}
	return grid
}

func buildGameOver(v view) *kiosk.Node {
	W, H := float64(v.vp.Width), float64(v.vp.Height)
	root := kiosk.NewContainer("screen.gameover")
	root.AddChild(v.background("background_instructions"))

	panel := kiosk.NewRect("panel", v.color("panel", defaultPanel), W*0.6, H*0.45)
	root.AddChild(v.centerX(panel, H*0.15))
	panel.AddChild(v.label("heading", "Kraj", H*0.06, panel.Width, H*0.1))

	msg := textLoss
	if v.state.Result == ResultWin {
		msg = textWin
	}
	body := v.label("message", msg, H*0.035, panel.Width*0.9, H*0.2)
	body.X, body.Y = panel.Width*0.05, H*0.12
	panel.AddChild(body)
	score := v.label("score", "Rezultat: "+strconv.Itoa(v.state.Score), H*0.045, panel.Width, H*0.08)
	score.Y = H * 0.33
	panel.AddChild(score)

	restart := v.button("restart", "Nova igra", v.act.restart)
	restart.X, restart.Y = W/2-restart.Width-W*0.02, H*0.7
	root.AddChild(restart)
	menu := v.button("mainMenu", "Izbornik", v.act.mainMenu)
	menu.X, menu.Y = W/2+W*0.02, H*0.7
	root.AddChild(menu)
	return root
}
