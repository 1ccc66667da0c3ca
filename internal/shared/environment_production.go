//go:build production

package shared

const defaultEnvironment = EnvProduction
