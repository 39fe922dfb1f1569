package submissions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"exitlayer/internal/shared/storage/object"
	"exitlayer/internal/skills"
)

// ArtifactWriter stores a bundle's documents under clients/<folder>/.
type ArtifactWriter struct {
	Store object.ObjectStore
}

// ArtifactKeys lists the object keys Write produces for bundle, in write order.
func ArtifactKeys(b Bundle) []string {
	folder := b.Metadata.ClientFolder
	keys := make([]string, 0, len(Kinds())+len(b.Skills.Skills)+1)
	for _, kind := range Kinds() {
		keys = append(keys, object.ClientKey(folder, kind+".md"))
	}
	for _, s := range b.Skills.Skills {
		keys = append(keys, object.ClientKey(folder, "skills", s.Name, "SKILL.md"))
	}
	keys = append(keys, object.ClientKey(folder, "bundle.json"))
	return keys
}

// Write stores every markdown document, one SKILL.md per skill and the bundle
// JSON. It keeps going after a failed object and returns the joined errors.
func (w *ArtifactWriter) Write(ctx context.Context, b Bundle) error {
	folder := b.Metadata.ClientFolder
	if folder == "" {
		return fmt.Errorf("%w: bundle has no client folder", object.ErrInvalidKey)
	}
	var errs []error
	put := func(name, contentType string, body []byte) {
		key := object.ClientKey(folder, name)
		if _, err := w.Store.Put(ctx, key, contentType, bytes.NewReader(body)); err != nil {
			errs = append(errs, fmt.Errorf("put %s: %w", key, err))
		}
	}

	for _, kind := range Kinds() {
		put(kind+".md", "text/markdown; charset=utf-8", []byte(b.Markdown[kind]))
	}
	for _, s := range b.Skills.Skills {
		doc, err := skills.Document(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("render skill %s: %w", s.Name, err))
			continue
		}
		put(path.Join("skills", s.Name, "SKILL.md"), "text/markdown; charset=utf-8", doc)
	}
	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		errs = append(errs, fmt.Errorf("marshal bundle: %w", err))
	} else {
		put("bundle.json", "application/json", raw)
	}
	return errors.Join(errs...)
}
