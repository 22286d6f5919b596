package constants

// Version is reported by the MCP server and the CLI.
const Version = "0.3.0"
