package core

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	tmplfs "github.com/m-2k/wire-webapp-cbor/cborgen/templates"
)

// RuntimeImport is the import path generated code uses for the codec.
const RuntimeImport = "github.com/m-2k/wire-webapp-cbor/runtime"

var templateFuncs = template.FuncMap{
	"conv": conv,
}

// conv wraps expr in a conversion to typ, or returns it unchanged when typ is empty.
func conv(typ, expr string) string {
	if typ == "" {
		return expr
	}
	return typ + "(" + expr + ")"
}

// Options configures how generation runs.
type Options struct {
	// Structs, if non-empty, restricts generation to the
	// named struct types. Names must match Go type names
	// exactly (no package qualification).
	Structs []string

	// Logger receives per-field diagnostics. Nil discards them.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Run generates CBOR code for a single Go source file.
// It emits per-struct encode/decode implementations into outputPath.
func Run(inputPath, outputPath string, opts Options) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, inputPath, nil, parser.ParseComments)
	if err != nil {
		return err
	}
	src, n, err := Generate(file, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", inputPath, err)
	}
	if n == 0 {
		opts.logger().Debug("no structs to generate", "input", inputPath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	if src, err = formatSource(outputPath, src); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, src, 0o644); err != nil {
		return err
	}
	opts.logger().Debug("generated", "input", inputPath, "output", outputPath, "structs", n)
	return nil
}

// formatSource runs goimports over src, falling back to go/format.
func formatSource(outputPath string, src []byte) ([]byte, error) {
	out, err := imports.Process(outputPath, src, nil)
	if err == nil {
		return out, nil
	}
	if formatted, ferr := format.Source(src); ferr == nil {
		return formatted, nil
	}
	return nil, fmt.Errorf("generated code does not parse: %w", err)
}

type fieldSpec struct {
	GoName        string
	CBORName      string
	OmitEmpty     bool
	OmitEmptyCond string
	EncodeBlock   string
	DecodeCase    string
	Ignore        bool
}

type structSpec struct {
	Name         string
	Fields       []fieldSpec
	HasOmit      bool
	NonOmitCount int
}

// Generate renders the unformatted companion source for the structs in file
// and reports how many structs it covered.
//
// cbor tag rules:
//   - if cbor tag present: it wins
//   - if cbor tag absent, json tag is used
//   - if both absent, Go field name is used
func Generate(file *ast.File, opts Options) ([]byte, int, error) {
	log := opts.logger()

	var allowed map[string]struct{}
	if len(opts.Structs) > 0 {
		allowed = make(map[string]struct{}, len(opts.Structs))
		for _, name := range opts.Structs {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			allowed[name] = struct{}{}
		}
	}

	var structs []structSpec
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok || !ast.IsExported(ts.Name.Name) {
				continue
			}
			if len(allowed) > 0 {
				if _, ok := allowed[ts.Name.Name]; !ok {
					continue
				}
			}
			ss := structSpec{Name: ts.Name.Name}
			for _, field := range st.Fields.List {
				// Skip anonymous fields for now.
				if len(field.Names) == 0 {
					continue
				}
				for _, ident := range field.Names {
					name := ident.Name
					if !ast.IsExported(name) {
						continue
					}
					fs := resolveFieldSpec(name, field.Tag)
					if fs.Ignore {
						continue
					}
					sh, ok := classify(field.Type)
					if !ok {
						log.Warn("unsupported field type, field ignored",
							"struct", ss.Name, "field", name, "type", exprString(field.Type))
						continue
					}
					data := sh.data("x." + name)
					var err error
					if fs.EncodeBlock, err = execute(encodeBlockTemplate, sh.encode, data); err != nil {
						return nil, 0, err
					}
					if fs.DecodeCase, err = execute(decodeCaseTemplate, sh.decode, data); err != nil {
						return nil, 0, err
					}
					if fs.OmitEmpty {
						if sh.zero == "" {
							log.Warn("omitempty not supported for type, field always written",
								"struct", ss.Name, "field", name)
							fs.OmitEmpty = false
						} else if fs.OmitEmptyCond, err = execute(omitEmptyCondTemplate, "omitEmptyCond",
							omitEmptyCondTemplateData{Field: data.Field, Kind: sh.zero}); err != nil {
							return nil, 0, err
						}
					}
					if fs.OmitEmpty {
						ss.HasOmit = true
					} else {
						ss.NonOmitCount++
					}
					log.Debug("field", "struct", ss.Name, "field", name, "key", fs.CBORName, "encode", sh.encode, "decode", sh.decode)
					ss.Fields = append(ss.Fields, fs)
				}
			}
			if len(ss.Fields) > 0 {
				structs = append(structs, ss)
			}
		}
	}
	if len(structs) == 0 {
		return nil, 0, nil
	}

	data := struct {
		Package       string
		RuntimeImport string
		Structs       []structSpec
	}{
		Package:       file.Name.Name,
		RuntimeImport: RuntimeImport,
		Structs:       structs,
	}
	var buf bytes.Buffer
	if err := marshalTemplate.ExecuteTemplate(&buf, "marshal.go.tpl", data); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), len(structs), nil
}

func execute(t *template.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("template %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// resolveFieldSpec applies tag resolution rules:
// - cbor tag primary
// - if no cbor tag, use json tag
// - if both absent, use Go field name
func resolveFieldSpec(goName string, tag *ast.BasicLit) fieldSpec {
	fs := fieldSpec{GoName: goName, CBORName: goName}
	if tag == nil {
		return fs
	}
	raw := tag.Value
	if len(raw) >= 2 && (raw[0] == '`' && raw[len(raw)-1] == '`') {
		raw = raw[1 : len(raw)-1]
	}
	st := reflect.StructTag(raw)
	for _, key := range []string{"cbor", "json"} {
		v, ok := parseTag(st.Get(key))
		if !ok {
			continue
		}
		if v == "-" {
			fs.Ignore = true
			return fs
		}
		fs.CBORName, fs.OmitEmpty = splitNameOptions(v, goName)
		return fs
	}
	return fs
}

// parseTag returns the raw tag string and whether it was present.
func parseTag(v string) (string, bool) {
	if v == "" {
		return "", false
	}
	return v, true
}

// splitNameOptions splits a tag like "name,omitempty" into name and omitEmpty flag.
// An empty name keeps the Go field name.
func splitNameOptions(tag, goName string) (string, bool) {
	parts := strings.Split(tag, ",")
	name := parts[0]
	omit := false
	for _, p := range parts[1:] {
		if p == "omitempty" {
			omit = true
		}
	}
	if name == "" {
		name = goName
	}
	return name, omit
}

type omitEmptyCondTemplateData struct {
	Field string
	Kind  string
}

// fieldTemplateData feeds the encode_block and decode_case templates.
type fieldTemplateData struct {
	Field  string // field reference, e.g. x.Name
	GoType string // declared scalar type
	Elem   string // slice element or pointee type
	Write  string // Encoder method
	Arg    string // conversion applied to the value before Write
	Read   string // Decoder method
	Got    string // type returned by Read
	Cast   string // conversion applied to the value after Read
}

// scalar describes how a predeclared Go type maps onto the codec methods.
type scalar struct {
	write string
	arg   string
	read  string
	got   string
	zero  string
}

var scalars = map[string]scalar{
	"string":  {write: "Text", read: "Text", got: "string", zero: "string"},
	"bool":    {write: "Bool", read: "Bool", got: "bool", zero: "bool"},
	"int8":    {write: "I8", arg: "int64", read: "I8", got: "int8", zero: "numeric"},
	"int16":   {write: "I16", arg: "int64", read: "I16", got: "int16", zero: "numeric"},
	"int32":   {write: "I32", arg: "int64", read: "I32", got: "int32", zero: "numeric"},
	"rune":    {write: "I32", arg: "int64", read: "I32", got: "int32", zero: "numeric"},
	"int64":   {write: "I64", read: "I64", got: "int64", zero: "numeric"},
	"int":     {write: "I64", arg: "int64", read: "I64", got: "int64", zero: "numeric"},
	"uint8":   {write: "U8", arg: "uint64", read: "U8", got: "uint8", zero: "numeric"},
	"byte":    {write: "U8", arg: "uint64", read: "U8", got: "uint8", zero: "numeric"},
	"uint16":  {write: "U16", arg: "uint64", read: "U16", got: "uint16", zero: "numeric"},
	"uint32":  {write: "U32", arg: "uint64", read: "U32", got: "uint32", zero: "numeric"},
	"uint64":  {write: "U64", read: "U64", got: "uint64", zero: "numeric"},
	"uint":    {write: "U64", arg: "uint64", read: "U64", got: "uint64", zero: "numeric"},
	"float32": {write: "F32", read: "F32", got: "float32", zero: "numeric"},
	"float64": {write: "F64", read: "F64", got: "float64", zero: "numeric"},
}

// direct reports whether the value returned by Read can be assigned to
// typ without a conversion.
func (s scalar) direct(typ string) bool {
	return s.got == typ || typ == "byte" || typ == "rune"
}

// shape is the classification of a field type: which templates render it
// and with which methods.
type shape struct {
	encode string
	decode string
	zero   string
	goType string
	elem   string
	sc     scalar
	cast   string
}

func (sh shape) data(field string) fieldTemplateData {
	return fieldTemplateData{
		Field:  field,
		GoType: sh.goType,
		Elem:   sh.elem,
		Write:  sh.sc.write,
		Arg:    sh.sc.arg,
		Read:   sh.sc.read,
		Got:    sh.sc.got,
		Cast:   sh.cast,
	}
}

// classify maps a field type onto the templates that encode and decode it.
// Exported identifiers that are not predeclared are assumed to be structs
// with generated methods.
func classify(typ ast.Expr) (shape, bool) {
	switch t := typ.(type) {
	case *ast.Ident:
		if sc, ok := scalars[t.Name]; ok {
			sh := shape{encode: "encodeScalar", decode: "decodeDirect", zero: sc.zero, goType: t.Name, sc: sc}
			if !sc.direct(t.Name) {
				sh.decode = "decodeCast"
			}
			return sh, true
		}
		if ast.IsExported(t.Name) {
			return shape{encode: "encodeStruct", decode: "decodeStruct", elem: t.Name}, true
		}

	case *ast.StarExpr:
		ident, ok := t.X.(*ast.Ident)
		if !ok {
			return shape{}, false
		}
		if sc, ok := scalars[ident.Name]; ok {
			// Optional hands back *Got, so only types Read returns directly qualify.
			if !sc.direct(ident.Name) || ident.Name == "byte" || ident.Name == "rune" {
				return shape{}, false
			}
			return shape{encode: "encodePtr", decode: "decodeOptional", zero: "nil", goType: ident.Name, sc: sc}, true
		}
		if ast.IsExported(ident.Name) {
			return shape{encode: "encodeStructPtr", decode: "decodeStructPtr", zero: "nil", elem: ident.Name}, true
		}

	case *ast.ArrayType:
		if t.Len != nil {
			return shape{}, false
		}
		ident, ok := t.Elt.(*ast.Ident)
		if !ok {
			return shape{}, false
		}
		if ident.Name == "byte" || ident.Name == "uint8" {
			sc := scalar{write: "Bytes", read: "Bytes", got: "[]byte"}
			return shape{encode: "encodeScalar", decode: "decodeBytes", zero: "len", sc: sc}, true
		}
		if sc, ok := scalars[ident.Name]; ok {
			sh := shape{encode: "encodeSlice", decode: "decodeSlice", zero: "len", elem: ident.Name, sc: sc}
			if !sc.direct(ident.Name) {
				sh.cast = ident.Name
			}
			return sh, true
		}
		if ast.IsExported(ident.Name) {
			return shape{encode: "encodeStructSlice", decode: "decodeStructSlice", zero: "len", elem: ident.Name}, true
		}
	}
	return shape{}, false
}

func exprString(e ast.Expr) string {
	var buf bytes.Buffer
	if err := format.Node(&buf, token.NewFileSet(), e); err != nil {
		return fmt.Sprintf("%T", e)
	}
	return buf.String()
}

var omitEmptyCondTemplate = template.Must(template.New("omit_empty_cond").Funcs(templateFuncs).ParseFS(tmplfs.FS, "zero_check.go.tpl"))

var decodeCaseTemplate = template.Must(template.New("decode_case").Funcs(templateFuncs).ParseFS(tmplfs.FS, "decode_case.go.tpl"))

var encodeBlockTemplate = template.Must(template.New("encode_block").Funcs(templateFuncs).ParseFS(tmplfs.FS, "encode_block.go.tpl"))

// marshalTemplate drives per-struct EncodeCBOR/DecodeCBOR generation.
//
// ParseFS returns templates named by their filenames; we parse the
// marshal.go.tpl file and then execute that template directly.
var marshalTemplate = template.Must(template.New("marshal.go.tpl").Funcs(templateFuncs).ParseFS(tmplfs.FS, "marshal.go.tpl"))
