package config

// mergeConfigs merges overlay config into base config.
// Scalars: overlay wins if non-zero
// Maps: overlay wins per key
// Receiver lists: concatenate
func mergeConfigs(base, overlay *Config) *Config {
	if overlay == nil {
		return base
	}
	if base == nil {
		return overlay
	}

	result := *base // shallow copy

	// Guest settings
	if overlay.Guest.Distro != "" {
		result.Guest.Distro = overlay.Guest.Distro
	}
	// The resolver command is an argv, so the overlay replaces it whole.
	if len(overlay.Guest.ResolveCommand) > 0 {
		result.Guest.ResolveCommand = overlay.Guest.ResolveCommand
	}

	// Rule settings
	if overlay.Rules.Prefix != "" {
		result.Rules.Prefix = overlay.Rules.Prefix
	}
	if overlay.Rules.ListenAddress != "" {
		result.Rules.ListenAddress = overlay.Rules.ListenAddress
	}

	// History settings (pointer: overlay wins if set)
	if overlay.History.Enabled != nil {
		result.History.Enabled = overlay.History.Enabled
	}
	if overlay.History.Path != "" {
		result.History.Path = overlay.History.Path
	}

	// Logging: merge receivers (append), merge attributes
	if len(overlay.Logging.Receivers) > 0 {
		result.Logging.Receivers = append(
			result.Logging.Receivers,
			overlay.Logging.Receivers...,
		)
	}
	result.Logging.Attributes = mergeStringMap(
		base.Logging.Attributes,
		overlay.Logging.Attributes,
	)

	// Include: not merged (only from the main config file)
	// result.Include stays from base

	return &result
}

// mergeStringMap merges two string maps, overlay wins for conflicts.
func mergeStringMap(base, overlay map[string]string) map[string]string {
	if base == nil && overlay == nil {
		return nil
	}
	result := make(map[string]string)
	for k, v := range base {
		result[k] = v
	}
	for k, v := range overlay {
		result[k] = v
	}
	return result
}
