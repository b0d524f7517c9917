package sqlguard

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheck describes a stored-procedure parameter value that tripped
// the SQL injection detector.
type InjectionCheck struct {
	ParamName   string // parameter that failed the check
	Fingerprint string // libinjection fingerprint of the detected pattern
}

// CheckParameter screens a single bound parameter value for SQL injection
// patterns. Parameters are never interpolated into SQL text, so this is
// defense in depth on the one path where caller data reaches the engine.
//
// Only string values are checked; numbers, booleans, and nil cannot carry
// injection and return nil.
func CheckParameter(name string, value any) *InjectionCheck {
	strValue, isString := value.(string)
	if !isString {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(strValue)
	if !isSQLi {
		return nil
	}

	return &InjectionCheck{
		ParamName:   name,
		Fingerprint: string(fingerprint),
	}
}

// CheckParameters screens every bound parameter in a set. Returns one
// InjectionCheck per failing parameter; an empty result means all values
// are clean.
func CheckParameters(params map[string]any) []*InjectionCheck {
	var failures []*InjectionCheck
	for name, value := range params {
		if check := CheckParameter(name, value); check != nil {
			failures = append(failures, check)
		}
	}
	return failures
}
