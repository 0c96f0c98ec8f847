package kiosk

import "errors"

// Lifecycle and lookup errors. Callers match them with errors.Is; the
// returned errors wrap these with the offending name or key.
var (
	// ErrDuplicateName is returned by Register when the scene name is taken.
	ErrDuplicateName = errors.New("kiosk: duplicate scene name")

	// ErrUnknownScene is returned by Switch for a name that was never registered.
	ErrUnknownScene = errors.New("kiosk: unknown scene")

	// ErrAssetNotFound is returned by AssetCache.Get for keys that were never
	// loaded or whose load has not completed.
	ErrAssetNotFound = errors.New("kiosk: asset not found")

	// ErrSceneInit wraps the error of a scene whose Init failed. The manager
	// is left without an active scene.
	ErrSceneInit = errors.New("kiosk: scene init failed")

	// ErrSceneDestroy wraps the error of a scene whose Destroy failed during
	// a switch. The manager is left without an active scene.
	ErrSceneDestroy = errors.New("kiosk: scene destroy failed")

	// ErrSwitchInProgress is returned when Switch is called while another
	// switch has not finished, e.g. from inside a scene's Init.
	ErrSwitchInProgress = errors.New("kiosk: scene switch already in progress")
)
