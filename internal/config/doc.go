// Package config loads dbattr settings with viper.
package config
