package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

const marker = "\n// --- Generated boilerplate below ---\n\n"

type ScriptInfo struct {
	Name string
	// HasConstructor is set when the file declares func New<Name>() *<Name>.
	HasConstructor bool
	Fields         []FieldInfo
}

type FieldInfo struct {
	Name     string
	Type     string
	PropName string
}

func main() {
	sourceDir := "assets/scripts"
	outputDir := "internal/scripts"

	if _, err := os.Stat(sourceDir); os.IsNotExist(err) {
		fmt.Printf("❌ Source directory not found: %s\n", sourceDir)
		fmt.Println("   Create assets/scripts/ and add your script files there.")
		os.Exit(1)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Printf("❌ Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	docPath := filepath.Join(outputDir, "doc.go")
	if _, err := os.Stat(docPath); os.IsNotExist(err) {
		docContent := `// Package scripts contains game scripts.
// Game-specific scripts can be placed in assets/scripts/ and will be
// copied here during build.
package scripts
`
		os.WriteFile(docPath, []byte(docContent), 0644)
	}

	files, err := filepath.Glob(filepath.Join(sourceDir, "*.go"))
	if err != nil {
		fmt.Printf("❌ Failed to read source directory: %v\n", err)
		os.Exit(1)
	}

	if len(files) == 0 {
		fmt.Printf("⚠️  No script files found in %s\n", sourceDir)
		fmt.Println("   Add .go files to assets/scripts/ to generate scripts.")
		return
	}

	fmt.Println("🔧 Generating scripts from assets/scripts/...")

	generatedCount := 0
	skippedCount := 0
	failed := false
	for _, file := range files {
		result, err := processScript(file, outputDir)
		if err != nil {
			fmt.Printf("   ✗ %s: %v\n", filepath.Base(file), err)
			failed = true
		} else if result == "skipped" {
			skippedCount++
		} else {
			fmt.Printf("   ✓ %s\n", strings.TrimSuffix(filepath.Base(file), ".go"))
			generatedCount++
		}
	}

	if skippedCount > 0 {
		fmt.Printf("✅ Generated %d, skipped %d (cached) in %s\n", generatedCount, skippedCount, outputDir)
	} else {
		fmt.Printf("✅ Generated %d script(s) in %s\n", generatedCount, outputDir)
	}
	if failed {
		os.Exit(1)
	}
}

func processScript(sourcePath, outputDir string) (string, error) {
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	outputPath := filepath.Join(outputDir, filepath.Base(sourcePath))

	if !needsRegeneration(content, outputPath) {
		return "skipped", nil
	}

	script, err := parseScript(string(content))
	if err != nil {
		return "", err
	}

	out, err := generate(script, content)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	os.WriteFile(outputPath+".hash", []byte(hashOf(content)), 0644)

	return "generated", nil
}

// parseScript finds the script struct of a source file: the first struct
// embedding engine.BaseScript, or the first struct when none does.
func parseScript(content string) (*ScriptInfo, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, "", content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go file: %w", err)
	}

	var first, script *ast.TypeSpec
	ast.Inspect(node, func(n ast.Node) bool {
		typeSpec, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		structType, ok := typeSpec.Type.(*ast.StructType)
		if !ok {
			return true
		}
		if first == nil {
			first = typeSpec
		}
		if script == nil && embedsBaseScript(structType) {
			script = typeSpec
		}
		return false
	})
	if script == nil {
		script = first
	}
	if script == nil {
		return nil, fmt.Errorf("no struct definition found")
	}

	info := &ScriptInfo{
		Name:           script.Name.Name,
		HasConstructor: hasConstructor(node, script.Name.Name),
		Fields:         []FieldInfo{},
	}

	for _, field := range script.Type.(*ast.StructType).Fields.List {
		// Embedded fields have no names
		if len(field.Names) == 0 {
			continue
		}
		fieldType := exprToString(field.Type)
		if _, ok := propExpr(FieldInfo{Type: fieldType}); !ok {
			continue
		}
		for _, name := range field.Names {
			if !unicode.IsUpper(rune(name.Name[0])) {
				continue
			}
			info.Fields = append(info.Fields, FieldInfo{
				Name:     name.Name,
				Type:     fieldType,
				PropName: toSnakeCase(name.Name),
			})
		}
	}

	return info, nil
}

func embedsBaseScript(s *ast.StructType) bool {
	for _, field := range s.Fields.List {
		if len(field.Names) == 0 && exprToString(field.Type) == "engine.BaseScript" {
			return true
		}
	}
	return false
}

func hasConstructor(file *ast.File, name string) bool {
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Name.Name != "New"+name {
			continue
		}
		if fn.Type.Params.NumFields() != 0 || fn.Type.Results.NumFields() != 1 {
			continue
		}
		if exprToString(fn.Type.Results.List[0].Type) == "*"+name {
			return true
		}
	}
	return false
}

func exprToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return exprToString(t.X) + "." + t.Sel.Name
	case *ast.StarExpr:
		return "*" + exprToString(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + exprToString(t.Elt)
		}
		return fmt.Sprintf("[%s]%s", exprToString(t.Len), exprToString(t.Elt))
	default:
		return "unknown"
	}
}

func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(unicode.ToLower(rune(s[0]))) + s[1:]
}

// propExpr returns the expression reading field from engine.Props, falling
// back to the field's current value. ok is false for unsupported types.
func propExpr(field FieldInfo) (expr string, ok bool) {
	key := strconv.Quote(field.PropName)
	cur := "script." + field.Name
	switch field.Type {
	case "float32":
		return fmt.Sprintf("props.Float32(%s, %s)", key, cur), true
	case "float64":
		return fmt.Sprintf("props.Float64(%s, %s)", key, cur), true
	case "int":
		return fmt.Sprintf("props.Int(%s, %s)", key, cur), true
	case "int32", "int64":
		return fmt.Sprintf("%s(props.Int(%s, int(%s)))", field.Type, key, cur), true
	case "bool":
		return fmt.Sprintf("props.Bool(%s, %s)", key, cur), true
	case "string":
		return fmt.Sprintf("props.String(%s, %s)", key, cur), true
	}
	return "", false
}

// generate appends registration, a props factory and a serializer to the
// script source and gofmts the result.
func generate(script *ScriptInfo, sourceContent []byte) ([]byte, error) {
	var b bytes.Buffer
	b.Write(sourceContent)

	lower := lowerFirst(script.Name)

	b.WriteString(marker)
	fmt.Fprintf(&b, "func init() {\n\tengine.RegisterScript(%q, %sFactory, %sSerializer)\n}\n\n",
		script.Name, lower, lower)

	// Factory
	fmt.Fprintf(&b, "func %sFactory(props engine.Props) engine.Script {\n", lower)
	if script.HasConstructor {
		fmt.Fprintf(&b, "\tscript := New%s()\n", script.Name)
	} else {
		fmt.Fprintf(&b, "\tscript := &%s{}\n", script.Name)
	}
	for _, field := range script.Fields {
		expr, _ := propExpr(field)
		fmt.Fprintf(&b, "\tscript.%s = %s\n", field.Name, expr)
	}
	b.WriteString("\treturn script\n}\n\n")

	// Serializer
	fmt.Fprintf(&b, "func %sSerializer(s engine.Script) engine.Props {\n", lower)
	if len(script.Fields) > 0 {
		fmt.Fprintf(&b, "\tscript, ok := s.(*%s)\n\tif !ok {\n\t\treturn nil\n\t}\n", script.Name)
	} else {
		fmt.Fprintf(&b, "\tif _, ok := s.(*%s); !ok {\n\t\treturn nil\n\t}\n", script.Name)
	}
	b.WriteString("\treturn engine.Props{\n")
	for _, field := range script.Fields {
		fmt.Fprintf(&b, "\t\t%q: script.%s,\n", field.PropName, field.Name)
	}
	b.WriteString("\t}\n}\n")

	out, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated code is not valid Go: %w", err)
	}
	return out, nil
}

func hashOf(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

func needsRegeneration(sourceContent []byte, outputPath string) bool {
	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		return true
	}

	cachedHash, err := os.ReadFile(outputPath + ".hash")
	if err != nil {
		return true
	}

	return string(cachedHash) != hashOf(sourceContent)
}
