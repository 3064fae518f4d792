package meshbridge

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Move meshes between authoring tools through a shared bridge directory"
	MsgExportShort     = "Export selected assets to the bridge directory"
	MsgImportShort     = "Import the inbound manifest from the bridge directory"
	MsgStatusShort     = "Show what sits in the bridge directory"
	MsgWatchShort      = "Watch the bridge directory and import manifests as they arrive"
	MsgConfigShort     = "Inspect and change meshbridge settings"
	MsgConfigShowShort = "Print the effective settings and where they come from"
	MsgConfigSetShort  = "Persist a setting to the user configuration file"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."

	// Status messages
	MsgDryRunNotice   = "\nDRY RUN MODE - No changes were made"
	MsgExportedFormat = "\nExported %d object(s), manifest at %s\n"
	MsgImportedFormat = "\nImported %d object(s) from %s\n"
	MsgPlannedFormat  = "\nWould import %d object(s) from %s\n"
	MsgObjectItem     = "  ✓ %s\n"
	MsgWatchingFormat = "Watching %s for inbound manifests (Ctrl-C to stop)\n"
	MsgSettingSaved   = "Saved %s to %s\n"

	// Error messages
	MsgErrExport       = "failed to export: %w"
	MsgErrImport       = "failed to import: %w"
	MsgErrStatus       = "failed to inspect bridge directory: %w"
	MsgErrWatch        = "failed to watch bridge directory: %w"
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrSaveConfig   = "failed to save configuration: %w"
	MsgErrUnknownKey   = "unknown setting %q (known: bridge_root, content_dir, delete_generated_assets)"
	MsgErrNoContentDir = "content directory not configured; set it with 'meshbridge config set content_dir <dir>'"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun     = "Preview changes without executing them"
	MsgFlagBridgeRoot = "Bridge directory (overrides configuration)"
	MsgFlagContentDir = "Content directory served by the built-in host (overrides configuration)"
	MsgFlagDeleteGen  = "Delete auto-generated skeletons and physics assets after retargeting"
	MsgFlagDebounce   = "How long manifest writes must settle before importing"
	MsgFlagOperation  = "Operation tag to stamp on the outbound manifest"
)

// Long messages
const (
	MsgRootLong = `meshbridge shuttles mesh assets between two authoring applications
through a shared bridge directory. One side drops geometry files plus a
JSON manifest describing them; the other side picks the manifest up,
imports every object and reconciles skeletons, morph target names and
material slots against what was recorded.

Run 'meshbridge help quickstart' for a worked example.`

	MsgExportLong = `Export collects the given library assets, writes their geometry into
the bridge directory mirroring each asset's internal path, captures
material changesets against the previous outbound manifest and drops a
fresh manifest for the other side.

The pass is synchronous and fail-fast: the first asset that cannot be
exported aborts the whole pass and the manifest is not written.`

	MsgExportExample = `  # Export two assets through the configured bridge directory
  meshbridge export /Game/Props/Crate /Game/Chars/Hero

  # Export through a different bridge directory
  meshbridge export --bridge-root /tmp/bridge /Game/Props/Crate`

	MsgImportLong = `Import reads the inbound manifest (from-dcc.json, falling back to the
legacy AssetBridge.json), imports every geometry file it references,
relocates each object to its canonical package path and reconciles
skeleton bindings, morph target names and material slots.

The pass is fail-fast at record granularity: one bad record stops it.`

	MsgImportExample = `  # Import whatever the other side dropped
  meshbridge import

  # See what would happen without touching anything
  meshbridge import --dry-run

  # Also delete generated skeletons after a successful retarget
  meshbridge import --delete-generated`

	MsgStatusLong = `Status inspects the bridge directory without modifying it: which
manifests are present in each direction, what operation they carry and
whether the geometry files they reference actually exist.`

	MsgStatusExample = `  meshbridge status
  meshbridge status --bridge-root /tmp/bridge`

	MsgWatchLong = `Watch blocks on the bridge directory and runs an import pass whenever
an inbound manifest settles. Producers write manifests in several
chunks, so a debounce window keeps half-written files from triggering
imports.`

	MsgWatchExample = `  meshbridge watch
  meshbridge watch --debounce 2s --dry-run`

	MsgConfigSetExample = `  meshbridge config set bridge_root /tmp/bridge
  meshbridge config set content_dir ~/projects/game/Content
  meshbridge config set delete_generated_assets true`
)
