package typefmt

// registerStandard installs the built-in printers. Characters and
// addresses pick their defaults through DefaultVerb, so only strings,
// integers and floats claim kind defaults here.
func registerStandard(r *Registry) {
	var (
		char = charPrinter()
		str  = stringPrinter()
		num  = intPrinter()
		flt  = floatPrinter()
	)
	r.MustRegister('c', IntKinds, char)
	r.MustRegister('C', IntKinds, char)

	r.MustRegisterDefault('s', KindString, str)
	r.MustRegister('S', KindString, str)

	r.MustRegisterDefault('d', IntKinds, num)
	for _, verb := range []byte("iuoxXpP") {
		r.MustRegister(verb, IntKinds, num)
	}

	r.MustRegisterDefault('g', FloatKinds, flt)
	for _, verb := range []byte("eEfFG") {
		r.MustRegister(verb, FloatKinds, flt)
	}
}
