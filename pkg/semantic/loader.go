package semantic

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
)

// LoadFS walks fsys and parses every JSON, YAML or HCL model descriptor into
// one Index. A nil fsys yields an empty index.
func LoadFS(fsys fs.FS) (*Index, error) {
	idx, _ := NewIndex()
	if fsys == nil {
		return idx, nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !IsDescriptorFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("semantic: read %s: %w", path, err)
		}
		types, err := ParseDescriptor(data, path)
		if err != nil {
			return nil, err
		}
		for _, t := range types {
			if err := idx.Add(t); err != nil {
				return nil, fmt.Errorf("semantic: %s: %w", path, err)
			}
		}
	}
	return idx, nil
}

// IsDescriptorFile reports whether path has a supported descriptor extension.
func IsDescriptorFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".hcl":
		return true
	default:
		return false
	}
}

// ParseDescriptor decodes one descriptor document. The format is chosen by
// the file extension of source; JSON and YAML share one schema.
func ParseDescriptor(data []byte, source string) ([]*Type, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("semantic: file %s is empty", source)
	}

	var doc documentFile
	if strings.EqualFold(filepath.Ext(source), ".hcl") {
		decoded, err := decodeHCL(data, source)
		if err != nil {
			return nil, err
		}
		doc = decoded
	} else {
		parsed, err := parseDocument(data, source)
		if err != nil {
			return nil, err
		}
		doc = parsed
	}

	out := make([]*Type, 0, len(doc.Types))
	for _, raw := range doc.Types {
		t, err := raw.toType("", nil, source)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

type documentFile struct {
	Types []typeFile `json:"types" yaml:"types"`
}

type typeFile struct {
	Name        string           `json:"name" yaml:"name"`
	Flags       []string         `json:"flags" yaml:"flags"`
	Super       string           `json:"super" yaml:"super"`
	Interfaces  []string         `json:"interfaces" yaml:"interfaces"`
	TypeParams  []typeParamFile  `json:"typeParams" yaml:"typeParams"`
	Annotations []annotationFile `json:"annotations" yaml:"annotations"`
	Methods     []methodFile     `json:"methods" yaml:"methods"`
	Types       []typeFile       `json:"types" yaml:"types"`
	Doc         string           `json:"doc" yaml:"doc"`
}

type typeParamFile struct {
	Name   string   `json:"name" yaml:"name"`
	Bounds []string `json:"bounds" yaml:"bounds"`
}

type annotationFile struct {
	Type   string         `json:"type" yaml:"type"`
	Values map[string]any `json:"values" yaml:"values"`
}

type methodFile struct {
	Name        string           `json:"name" yaml:"name"`
	Flags       []string         `json:"flags" yaml:"flags"`
	Returns     string           `json:"returns" yaml:"returns"`
	Params      []paramFile      `json:"params" yaml:"params"`
	Annotations []annotationFile `json:"annotations" yaml:"annotations"`
	Doc         string           `json:"doc" yaml:"doc"`
}

type paramFile struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("semantic: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}

func (raw typeFile) toType(outer string, outerVars []string, source string) (*Type, error) {
	simple := strings.TrimSpace(raw.Name)
	if simple == "" {
		return nil, fmt.Errorf("semantic: file %s declares a type without a name", source)
	}
	name := simple
	if outer != "" {
		if strings.ContainsAny(simple, ".$") {
			return nil, fmt.Errorf("semantic: file %s: nested type %q must use a simple name", source, simple)
		}
		name = outer + "$" + simple
	}

	flags, err := ParseFlags(raw.Flags)
	if err != nil {
		return nil, fmt.Errorf("semantic: file %s type %s: %w", source, name, err)
	}

	t := &Type{
		Name:   name,
		Flags:  flags,
		Doc:    strings.TrimSpace(raw.Doc),
		Source: source,
	}

	vars := append([]string(nil), outerVars...)
	for _, p := range raw.TypeParams {
		vars = append(vars, strings.TrimSpace(p.Name))
	}
	parse := func(sig string) (jtype.Ref, error) {
		ref, err := jtype.Parse(sig)
		if err != nil {
			return jtype.Ref{}, fmt.Errorf("semantic: file %s type %s: %w", source, name, err)
		}
		return ref.MarkTypeVars(vars...), nil
	}

	for _, p := range raw.TypeParams {
		param := TypeParam{Name: strings.TrimSpace(p.Name)}
		if param.Name == "" {
			return nil, fmt.Errorf("semantic: file %s type %s: type parameter without a name", source, name)
		}
		for _, b := range p.Bounds {
			ref, err := parse(b)
			if err != nil {
				return nil, err
			}
			param.Bounds = append(param.Bounds, ref)
		}
		t.TypeParams = append(t.TypeParams, param)
	}

	if s := strings.TrimSpace(raw.Super); s != "" {
		ref, err := parse(s)
		if err != nil {
			return nil, err
		}
		t.Super = &ref
	}
	for _, iface := range raw.Interfaces {
		ref, err := parse(iface)
		if err != nil {
			return nil, err
		}
		t.Interfaces = append(t.Interfaces, ref)
	}

	if t.Annotations, err = toAnnotations(raw.Annotations, source, name); err != nil {
		return nil, err
	}

	for i, m := range raw.Methods {
		method := Method{
			Name:  strings.TrimSpace(m.Name),
			Doc:   strings.TrimSpace(m.Doc),
			Index: i,
		}
		if method.Name == "" {
			return nil, fmt.Errorf("semantic: file %s type %s: method without a name", source, name)
		}
		if method.Flags, err = ParseFlags(m.Flags); err != nil {
			return nil, fmt.Errorf("semantic: file %s method %s.%s: %w", source, name, method.Name, err)
		}
		ret := strings.TrimSpace(m.Returns)
		if ret == "" {
			ret = "void"
		}
		if method.Return, err = parse(ret); err != nil {
			return nil, err
		}
		for _, p := range m.Params {
			ref, err := parse(p.Type)
			if err != nil {
				return nil, err
			}
			method.Params = append(method.Params, Param{Name: strings.TrimSpace(p.Name), Type: ref})
		}
		if method.Annotations, err = toAnnotations(m.Annotations, source, name+"."+method.Name); err != nil {
			return nil, err
		}
		t.Methods = append(t.Methods, method)
	}

	for _, nested := range raw.Types {
		member, err := nested.toType(name, vars, source)
		if err != nil {
			return nil, err
		}
		t.Members = append(t.Members, member)
	}
	return t, nil
}

func toAnnotations(raw []annotationFile, source, owner string) ([]Annotation, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]Annotation, 0, len(raw))
	for _, a := range raw {
		name := strings.TrimSpace(a.Type)
		if name == "" {
			return nil, fmt.Errorf("semantic: file %s %s: annotation without a type", source, owner)
		}
		values := make(map[string]any, len(a.Values))
		for key, v := range a.Values {
			norm, err := normalizeValue(v)
			if err != nil {
				return nil, fmt.Errorf("semantic: file %s %s: annotation %s attribute %q: %w", source, owner, name, key, err)
			}
			values[strings.TrimSpace(key)] = norm
		}
		out = append(out, Annotation{Type: name, Values: values})
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	switch val := v.(type) {
	case string, bool, float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			norm, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = norm
		}
		return out, nil
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("null value")
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}
