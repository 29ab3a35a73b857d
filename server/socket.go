package server

import (
	"os"
	"path/filepath"
	"strconv"
)

// SocketName is the fixed file name a Nightfury server listens on within
// the runtime directory (§6).
const SocketName = "nightfury.sock"

// SocketPath resolves the Unix socket path per §6's environment contract:
// XDG_RUNTIME_DIR if set, otherwise /run/user/<EUID>.
func SocketPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = filepath.Join("/run/user", strconv.Itoa(os.Geteuid()))
	}
	return filepath.Join(dir, SocketName)
}
