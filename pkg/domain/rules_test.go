package domain_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specloom/specloom/pkg/domain"
)

func TestDefaultRules_UIKit(t *testing.T) {
	rules := domain.DefaultRules(domain.UIKit)

	assert.Equal(t, "UIView", rules.DefaultBase)
	assert.Equal(t, "UICollectionViewCell", rules.CellFor["UICollectionView"])
	assert.Equal(t, "UITableViewCell", rules.CellFor["UITableView"])
	assert.True(t, rules.IsCellBase("UITableViewCell"))
	assert.False(t, rules.IsCellBase("UIView"))
	assert.True(t, rules.IsLabelBase("UILabel"))
	assert.True(t, rules.IsImageBase("UIImageView"))
}

func TestDefaultRules_SwiftUI(t *testing.T) {
	rules := domain.DefaultRules(domain.SwiftUI)

	assert.Equal(t, "View", rules.DefaultBase)
	assert.Empty(t, rules.CellFor)
	assert.Contains(t, rules.Controls["Button"].Allowed, "Label")
	assert.Contains(t, rules.RowHints["List"], "row")
}

func TestRequirementsForChild(t *testing.T) {
	rules := domain.DefaultRules(domain.UIKit)

	table := &domain.Decision{Component: domain.Component{Base: "UITableView"}}
	req := rules.RequirementsForChild(table)
	require.NotNil(t, req)
	assert.Equal(t, "UITableViewCell", req.MustUseComponentBase)

	button := &domain.Decision{Component: domain.Component{Base: "UIButton"}}
	req = rules.RequirementsForChild(button)
	require.NotNil(t, req)
	assert.Empty(t, req.MustUseComponentBase)
	assert.Contains(t, req.AllowedComponentBases, "UILabel")

	plain := &domain.Decision{Component: domain.Component{Base: "UIView"}}
	assert.Nil(t, rules.RequirementsForChild(plain))
}

func TestLoadRulesFile_Merge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	override := `
defaultBase: MyBaseView
cellFor:
  MyGrid: MyGridCell
`
	require.NoError(t, os.WriteFile(path, []byte(override), 0644))

	rules, err := domain.LoadRulesFile(path, domain.DefaultRules(domain.UIKit))
	require.NoError(t, err)

	// Overridden fields replace, untouched fields survive.
	assert.Equal(t, "MyBaseView", rules.DefaultBase)
	assert.Equal(t, "MyGridCell", rules.CellFor["MyGrid"])
	assert.Equal(t, "UILabel", rules.TextBase)
}

func TestLoadRulesFile_Missing(t *testing.T) {
	_, err := domain.LoadRulesFile(filepath.Join(t.TempDir(), "nope.yaml"), domain.DefaultRules(domain.UIKit))
	assert.Error(t, err)
}

func TestParseUISystem(t *testing.T) {
	ui, err := domain.ParseUISystem("UIKit")
	require.NoError(t, err)
	assert.Equal(t, domain.UIKit, ui)

	ui, err = domain.ParseUISystem("SwiftUI")
	require.NoError(t, err)
	assert.Equal(t, domain.SwiftUI, ui)

	_, err = domain.ParseUISystem("AppKit")
	assert.Error(t, err)
}
