// Package thermal evaluates human thermal-comfort indices from scalar
// meteorological inputs.
//
// # Units
//
// Every exported function accepts and returns temperatures in Kelvin. Several
// reference formulas are defined in Celsius or Fahrenheit; they convert on entry
// and convert back before returning, so callers never see the intermediate unit.
//
//	temperature        K
//	relative humidity  % (0–100 nominal, never clamped)
//	wind speed         m/s, measured at 10 m unless a function says otherwise
//	radiative flux     W/m²
//	vapour pressure    hPa (the UTCI regression divides by 10 internally for kPa)
//
// # Undefined results
//
// A handful of formulas are not valid over the whole input domain. Those return
// a (value, ok) pair and report ok == false instead of a sentinel number:
//
//	ApproximateDirectSolarRadiation  cos(zenith) <= 0.1
//	HeatIndexSimplified              air temperature <= 20 °C
//	HeatIndexAdjusted                no regression regime applies
//
// Everything else is evaluated unguarded. Inputs outside a formula's documented
// range (a non-positive target height, RH at 100 % feeding the dew point inverse,
// negative wind under a fractional power) produce NaN or ±Inf under IEEE 754
// rules rather than a clamped value. [UniversalThermalClimateIndex] is the only
// function with an error return: it needs a dew point or a vapour pressure and
// reports [ErrMissingHumidityInput] when given neither.
//
// # Determinism
//
// Functions are pure and safe for concurrent use. Operation order inside each
// formula follows the published expressions; reference fixtures are matched to
// 1e-6 absolute, which leaves little room for algebraic rearrangement.
package thermal
