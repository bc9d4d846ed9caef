// Package config provides configuration structures and utilities for siruta.
// It defines the download target (base URL, date suffix, number of county
// documents), the output location and the optional run history settings.
package config
