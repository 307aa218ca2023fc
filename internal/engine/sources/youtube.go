// Package sources implements transcript.Provider for YouTube.
//
// The provider is split across two files by responsibility:
//
//	youtube_innertube.go  — watch-page and Innertube player types, constants, and HTTP primitives
//	youtube_transcript.go — caption track listing (watch page, then ANDROID player fallback)
//	                        and timedtext download/parsing
package sources
