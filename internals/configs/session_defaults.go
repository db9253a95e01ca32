package configs

// SessionDefaults = threshold bawaan instalasi. Override per academy
// disimpan di tabel session_settings.
type SessionDefaults struct {
	PreparationMinutes    int
	EarlyJoinMinutes      int
	GracePeriodMinutes    int
	BufferMinutes         int
	MaxFutureHours        int
	MaxPastHours          int
	MaxFutureHoursOngoing int
}

func DefaultSessionDefaults() SessionDefaults {
	return SessionDefaults{
		PreparationMinutes:    10,
		EarlyJoinMinutes:      15,
		GracePeriodMinutes:    15,
		BufferMinutes:         5,
		MaxFutureHours:        24,
		MaxPastHours:          24,
		MaxFutureHoursOngoing: 2,
	}
}

func LoadSessionDefaults() SessionDefaults {
	d := DefaultSessionDefaults()
	return SessionDefaults{
		PreparationMinutes:    GetEnvInt("SESSION_PREPARATION_MINUTES", d.PreparationMinutes),
		EarlyJoinMinutes:      GetEnvInt("SESSION_EARLY_JOIN_MINUTES", d.EarlyJoinMinutes),
		GracePeriodMinutes:    GetEnvInt("SESSION_GRACE_PERIOD_MINUTES", d.GracePeriodMinutes),
		BufferMinutes:         GetEnvInt("SESSION_BUFFER_MINUTES", d.BufferMinutes),
		MaxFutureHours:        GetEnvInt("SESSION_MAX_FUTURE_HOURS", d.MaxFutureHours),
		MaxPastHours:          GetEnvInt("SESSION_MAX_PAST_HOURS", d.MaxPastHours),
		MaxFutureHoursOngoing: GetEnvInt("SESSION_MAX_FUTURE_HOURS_ONGOING", d.MaxFutureHoursOngoing),
	}
}
