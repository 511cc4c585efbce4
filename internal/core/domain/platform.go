package domain

import (
	"os"
	"path"
	"runtime"
	"strings"

	"go.trai.ch/zerr"
)

// System identifies the platform the build script is generated for.
type System string

const (
	// SystemWindows targets nmake and the MSVC toolchain.
	SystemWindows System = "Windows"
	// SystemLinux targets GNU make.
	SystemLinux System = "Linux"
	// SystemDarwin targets GNU make on macOS.
	SystemDarwin System = "Darwin"
	// SystemMinGW targets GNU make inside an MSYS2/MinGW shell.
	SystemMinGW System = "MinGW"
)

// Systems lists every supported system.
var Systems = []System{SystemWindows, SystemLinux, SystemDarwin, SystemMinGW}

// CurrentSystem detects the host system.
func CurrentSystem() System {
	return DetectSystem(runtime.GOOS, os.Getenv("MSYSTEM"))
}

// DetectSystem maps a GOOS value and the MSYS2 MSYSTEM variable to a System.
// Unknown operating systems are treated as Linux.
func DetectSystem(goos, msystem string) System {
	switch goos {
	case "windows":
		if strings.HasPrefix(strings.ToUpper(msystem), "MINGW") {
			return SystemMinGW
		}
		return SystemWindows
	case "darwin":
		return SystemDarwin
	default:
		return SystemLinux
	}
}

// ParseSystem parses a system name case-insensitively.
func ParseSystem(s string) (System, error) {
	for _, sys := range Systems {
		if strings.EqualFold(string(sys), s) {
			return sys, nil
		}
	}
	return "", zerr.With(ErrUnknownSystem, "system", s)
}

// String returns the system name.
func (s System) String() string {
	return string(s)
}

// IsWindows reports whether the system uses nmake syntax and Windows paths.
func (s System) IsWindows() bool {
	return s == SystemWindows
}

// PathJoin joins path elements with the separator of the system.
func (s System) PathJoin(elem ...string) string {
	joined := path.Join(elem...)
	if s.IsWindows() {
		return strings.ReplaceAll(joined, "/", `\`)
	}
	return joined
}

// PathListSeparator returns the separator used in PATH-like variables.
// MinGW uses ':' because its paths are translated to the /c/ form.
func (s System) PathListSeparator() string {
	if s.IsWindows() {
		return ";"
	}
	return ":"
}

// BinDirName returns the name of the executables directory inside a virtual environment.
func (s System) BinDirName() string {
	if s.IsWindows() {
		return "Scripts"
	}
	return "bin"
}
