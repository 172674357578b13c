// Package env reads configuration overrides from the process
// environment. Values set here take precedence over the config file;
// a .env file in the working directory is loaded first if present.
package env
