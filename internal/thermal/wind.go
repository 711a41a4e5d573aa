package thermal

import "math"

const (
	// referenceHeightM is the measurement height of standard 10 m wind.
	referenceHeightM = 10.0
	// roughnessLengthM is the surface roughness assumed by the log profile.
	roughnessLengthM = 0.01
)

// ScaleWindspeed rescales a 10 m wind speed to heightM metres with a
// logarithmic profile over a 0.01 m roughness length. heightM must be
// positive; other values produce NaN or -Inf from the logarithm.
//
// Reference: Bröde et al. (2012), doi:10.1007/s00484-011-0454-1
func ScaleWindspeed(speed10m, heightM float64) float64 {
	c := 1.0 / math.Log10(referenceHeightM/roughnessLengthM)
	return speed10m * math.Log10(heightM/roughnessLengthM) * c
}
