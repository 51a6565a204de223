package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	scriptsDir = "assets/scripts"
	luaDir     = "assets/lua"
)

const tmpl = `package scripts

import (
	"context"

	"immortal/internal/engine"
)

type {{.Name}} struct {
	engine.BaseScript
	Speed float32
}

func New{{.Name}}() *{{.Name}} {
	return &{{.Name}}{Speed: 1}
}

func (s *{{.Name}}) Update(ctx context.Context, deltaTime float32) error {
	tr, err := s.Transform()
	if err != nil {
		return err
	}
	pos, err := tr.Position()
	if err != nil {
		return err
	}
	// TODO: implement behavior
	return tr.SetPosition(pos)
}
`

const luaTmpl = `-- {{.Name}}

local speed = 1

function update(dt)
  local x, y, z = transform.position()
  -- TODO: implement behavior
  transform.set_position(x, y, z)
end

function on_key_down(code)
  log.debug("{{.Name}} key " .. code)
end
`

func main() {
	lua := flag.Bool("lua", false, "scaffold a Lua script instead of a Go script")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: go run ./cmd/newscript [-lua] <ScriptName>\n")
		fmt.Fprintf(os.Stderr, "Example: go run ./cmd/newscript EnemyChaser\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	name := flag.Arg(0)
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		fmt.Fprintf(os.Stderr, "Error: script name must start with an uppercase letter\n")
		os.Exit(1)
	}

	outPath, content := render(name, *lua)

	if _, err := os.Stat(outPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", outPath)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s\n", outPath)
	if *lua {
		fmt.Printf("Add it to a scene object:\n\n")
		fmt.Printf("    scripts:\n")
		fmt.Printf("      - lua: %s\n", filepath.ToSlash(filepath.Join("..", "lua", filepath.Base(outPath))))
		return
	}
	fmt.Printf("Run go run ./cmd/gen-scripts to register \"%s\", then add it to a scene object:\n\n", name)
	fmt.Printf("    scripts:\n")
	fmt.Printf("      - name: %s\n", name)
	fmt.Printf("        props: {speed: 1.0}\n")
}

// render returns the output path and file content for a new script.
func render(name string, lua bool) (string, string) {
	dir, ext, content := scriptsDir, ".go", tmpl
	if lua {
		dir, ext, content = luaDir, ".lua", luaTmpl
	}
	content = strings.ReplaceAll(content, "{{.Name}}", name)
	return filepath.Join(dir, toSnakeCase(name)+ext), content
}

func toSnakeCase(s string) string {
	var result []rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			result = append(result, '_')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}
