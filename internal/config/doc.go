// Package config loads the OnlyPets configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/onlypets/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or blank, use defaults
//
// # Default Values
//
//   - Database: ~/.local/share/onlypets/onlypets.db
//   - Guest wishlist: ~/.local/share/onlypets/guest_wishlist.toml
//   - Preferences: ~/.config/onlypets/prefs.toml
//   - Log file: ~/.local/state/onlypets/onlypets.log
//   - Log level: info
//   - Dispatch policy: drop
//   - Sample data: seeded into an empty database
//   - Featured cards on Home: 4 of each kind
//
// # TOML Format
//
//	db_path = "~/.local/share/onlypets/onlypets.db"
//	guest_wishlist_path = "~/.local/share/onlypets/guest_wishlist.toml"
//	log_path = "~/.local/state/onlypets/onlypets.log"
//	log_level = "debug"
//	dispatch_policy = "queue"
//	seed_sample_data = false
//	featured_count = 6
//
// Every field is optional. Tilde expansion is performed on paths.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and unknown dispatch policies
//
// Missing config files are NOT an error.
package config
