package domain

import "fmt"

// UISystem identifies the target platform a tree is mapped onto.
type UISystem string

const (
	UIKit   UISystem = "UIKit"
	SwiftUI UISystem = "SwiftUI"
)

// UISystems lists the supported target platforms.
var UISystems = []UISystem{UIKit, SwiftUI}

// ParseUISystem validates a user-supplied platform name.
func ParseUISystem(s string) (UISystem, error) {
	for _, ui := range UISystems {
		if string(ui) == s {
			return ui, nil
		}
	}
	return "", fmt.Errorf("unknown ui system %q (supported: %s, %s)", s, UIKit, SwiftUI)
}
