// Package production provides production integrations for compiled charts: chart
// document files, DOT visualization and chart registries (in memory and Redis).
package production
