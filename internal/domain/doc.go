// Package domain models surface weather observations and the thermal comfort
// indices derived from them.
//
// # Data Source
//
// Observations originate from station networks and gridded reanalysis
// extracts. The upstream collector normalizes each record to SI units, keeps
// accumulated radiation fields as delivered, and publishes one flat JSON
// object per observation to the Kafka source topic.
//
// # Observation Conventions
//
// Units:
//
//	t2m, td, mrt, bgt    K
//	rh                   %
//	vp                   hPa
//	va, u10, v10         m/s at 10 m
//	ssrd ssr fdir strd   W/m², or J/m² when accumulation_seconds > 0
//	strr dsrp            same as above
//	cossza               dimensionless
//
// Time is RFC 3339. When absent, the Kafka message timestamp is used.
//
// Only t2m is mandatory. Everything else is optional, and [ComputeIndices]
// evaluates whatever the available inputs allow.
//
// # Input Resolution
//
// Missing inputs are derived in a fixed order:
//
//	humidity   observed rh, else from td, else from vp; td from rh when absent
//	wind       va, else |(u10, v10)|
//	cossza     observed, else SolarGeometry at the observation coordinates
//	mrt        observed, else the radiation balance, else inverted from bgt
//	bgt        observed, else solved from mrt and wind
//
// The radiation balance uses dsrp when supplied. Otherwise the direct beam is
// approximated from fdir, which is undefined for cos(zenith) <= 0.1.
//
// # Classification
//
// UTCI values are binned into the ten standard thermal stress categories. The
// adjusted heat index is binned into the NWS caution levels (80, 90, 103 and
// 125 °F).
//
// # ID Generation
//
// Observation IDs are deterministic SHA-256 hashes of station|time|lat|lon,
// prefixed with the station ID. Replays of the same record produce the same
// ID. See [generateID].
package domain
