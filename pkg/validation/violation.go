package validation

import "fmt"

// Violation is one unmet constraint on the cart aggregate. Detail is a
// human-readable message and Pointer the property path it applies to,
// e.g. "shipments.0.shipping_method".
type Violation struct {
	Detail  string `json:"detail"`
	Pointer string `json:"pointer"`
}

// Violations is the advisory required-field report attached as response
// metadata. It never blocks a 2xx response by itself.
type Violations []Violation

// Add appends a violation for the given property path.
func (v *Violations) Add(pointer, format string, args ...any) {
	*v = append(*v, Violation{Detail: fmt.Sprintf(format, args...), Pointer: pointer})
}

// For returns the violations matching the exact property path.
func (v Violations) For(pointer string) Violations {
	var matched Violations
	for _, violation := range v {
		if violation.Pointer == pointer {
			matched = append(matched, violation)
		}
	}
	return matched
}

// Filter keeps only violations whose pointer has one of the given roots.
// A root matches the pointer itself or any nested path below it.
func (v Violations) Filter(roots ...string) Violations {
	if len(roots) == 0 {
		return v
	}
	var matched Violations
	for _, violation := range v {
		for _, root := range roots {
			if violation.Pointer == root || hasRoot(violation.Pointer, root) {
				matched = append(matched, violation)
				break
			}
		}
	}
	return matched
}

func hasRoot(pointer, root string) bool {
	return len(pointer) > len(root) && pointer[:len(root)] == root && pointer[len(root)] == '.'
}
