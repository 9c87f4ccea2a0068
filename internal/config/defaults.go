package config

const (
	defaultDataDir   = "~/.local/share/seedlink"
	defaultLogDir    = "~/.local/share/seedlink/logs"
	defaultLogLevel  = "info"
	defaultLogFormat = "console"

	defaultEditDistanceWeight   = 0.35
	defaultTokenOverlapWeight   = 0.35
	defaultJaroWinklerWeight    = 0.15
	defaultInstitutionBonus     = 0.15
	defaultInstitutionAgreement = 0.60
	defaultHighThreshold        = 0.90
	defaultMediumThreshold      = 0.70
	defaultLowThreshold         = 0.50
	defaultYearTolerance        = 2

	defaultGoodThreshold        = 0.85
	defaultModerateThreshold    = 0.60
	defaultHighCompleteness     = 0.90
	defaultMediumCompleteness   = 0.70
	defaultIdentificationWeight = 0.50
	defaultStressWeight         = 0.30
	defaultAgronomicWeight      = 0.20
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Matching: Matching{
			EditDistanceWeight:   defaultEditDistanceWeight,
			TokenOverlapWeight:   defaultTokenOverlapWeight,
			JaroWinklerWeight:    defaultJaroWinklerWeight,
			InstitutionBonus:     defaultInstitutionBonus,
			InstitutionAgreement: defaultInstitutionAgreement,
			HighThreshold:        defaultHighThreshold,
			MediumThreshold:      defaultMediumThreshold,
			LowThreshold:         defaultLowThreshold,
			YearTolerance:        defaultYearTolerance,
		},
		Quality: Quality{
			GoodThreshold:        defaultGoodThreshold,
			ModerateThreshold:    defaultModerateThreshold,
			HighCompleteness:     defaultHighCompleteness,
			MediumCompleteness:   defaultMediumCompleteness,
			IdentificationWeight: defaultIdentificationWeight,
			StressWeight:         defaultStressWeight,
			AgronomicWeight:      defaultAgronomicWeight,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
