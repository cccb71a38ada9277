// Package cli builds the copywords root command with cobra and layers its
// settings: command line flags first, then COPYWORDS_* environment
// variables and .env files, then the .copywords.yaml config read by viper.
package cli
