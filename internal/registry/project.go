package registry

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project represents one deployed web project
type Project struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Type      string    `yaml:"type"` // static, server, custom, files
	Port      int       `yaml:"port,omitempty"`
	Dir       string    `yaml:"dir,omitempty"`       // project root on disk
	ServeDir  string    `yaml:"serve_dir,omitempty"` // explicit serve directory override
	Domains   []string  `yaml:"domains,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Project type constants
const (
	TypeStatic = "static" // browser bundle built from source
	TypeServer = "server" // server-rendered app proxied by port
	TypeCustom = "custom" // custom server proxied by port
	TypeFiles  = "files"  // plain static files served from the project root
)

// ValidTypes returns all valid project types
func ValidTypes() []string {
	return []string{TypeStatic, TypeServer, TypeCustom, TypeFiles}
}

// IsValidType checks if the given type is valid
func IsValidType(t string) bool {
	for _, valid := range ValidTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// IsStatic reports whether the project is served from the filesystem
// rather than proxied to a live process. An explicit serve directory
// override forces static serving regardless of type.
func (p *Project) IsStatic() bool {
	return p.Type == TypeStatic || p.Type == TypeFiles || p.ServeDir != ""
}

// NewID mints a new project ID
func NewID() string {
	return uuid.NewString()
}

// Slug returns the URL-safe form of a project name: lower-cased, with
// every run of non-alphanumeric characters collapsed to a single hyphen
// and no leading or trailing hyphens.
func Slug(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	return b.String()
}
