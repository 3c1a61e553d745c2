package handler

import (
	"gameshelf/backend/internal/enrich"
	"gameshelf/backend/internal/platform/epic"
	"gameshelf/backend/internal/platform/steam"
)

// Package-level dependencies, wired once at startup (same pattern as the
// global database handle).
var (
	SteamClient *steam.Client
	EpicClient  *epic.Client
	Enricher    *enrich.Worker
)

// Init wires the platform clients and the enrichment worker.
func Init(steamClient *steam.Client, epicClient *epic.Client, enricher *enrich.Worker) {
	SteamClient = steamClient
	EpicClient = epicClient
	Enricher = enricher
}
