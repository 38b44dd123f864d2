// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Coordination hub - the long-lived process that owns the current color.
const (
	HubDefaultColor = "hub.default_color"
)

// Surface - the transient view that renders the color and favorites.
const (
	SurfaceInitialColor   = "surface.initial_color"
	SurfaceCopyOnPick     = "surface.copy_on_pick"
	SurfaceCopyFeedbackMs = "surface.copy_feedback_ms"
)

// Picker - selection and invocation of the native sampling capability.
const (
	PickerSampler = "picker.sampler"
	PickerCommand = "picker.command"
)

// Storage - the durable key-value store holding favorites.
const (
	StorageBackend      = "storage.backend"
	StorageFavoritesKey = "storage.favorites_key"
)

// Shortcut - the global keyboard binding that starts the picker.
const (
	ShortcutStartPicker = "shortcut.start_picker"
)

// Transport - message bus and socket settings.
const (
	BusBuffer    = "bus.buffer"
	IPCTimeoutMs = "ipc.timeout_ms"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
