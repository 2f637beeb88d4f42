package validator

// Validator collects field errors. The first error added for a field wins.
type Validator struct {
	Errors map[string]string
	order  []string
}

// New returns an empty Validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if no errors were recorded.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records message for key unless key already has one.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
		v.order = append(v.order, key)
	}
}

// Check adds an error message only if ok is false.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// FirstError returns the earliest recorded error in check order.
func (v *Validator) FirstError() (key, message string, found bool) {
	for _, k := range v.order {
		if msg, ok := v.Errors[k]; ok {
			return k, msg, true
		}
	}
	for k, msg := range v.Errors {
		return k, msg, true
	}
	return "", "", false
}
