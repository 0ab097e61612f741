// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"fmt"

	"github.com/ik5/audmix/clip"
)

// Library holds the decoded clips a Manager plays. A clip's position in its
// slice is its id.
type Library struct {
	Effects []*clip.Clip
	Music   []*clip.Clip
}

// LoadLibrary decodes every asset named in cfg through cat. A nil catalog
// uses the default decoder set.
func LoadLibrary(cat *clip.Catalog, cfg Config) (Library, error) {
	if cat == nil {
		cat = clip.NewCatalog(nil)
	}

	effects, err := cat.LoadAll(cfg.Effects)
	if err != nil {
		return Library{}, fmt.Errorf("effects: %w", err)
	}

	music, err := cat.LoadAll(cfg.Music)
	if err != nil {
		return Library{}, fmt.Errorf("music: %w", err)
	}

	return Library{Effects: effects, Music: music}, nil
}
