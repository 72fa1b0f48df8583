// Package extended bridges a media host to an optional, separately built
// extractor module (libExtendedExtractor / libmmparser) that provides extra
// container formats.
//
// The module is never linked at build time. The first Sniff or Create call
// opens it with dlopen (via purego) and resolves its entry points by name;
// every outcome is cached for the life of the process. When the module or an
// entry point is missing, Sniff reports no match and Create returns nil.
//
// # Architecture
//
//	Host registry -> Sniff  -> plugin handle -> sniff symbol  -> module
//	Host          -> Create -> plugin handle -> create symbol -> module
//	Host init     -> RegisterSniffers -> sniffer array symbol -> Registrar
//
// # Build Tags
//
//   - noextended: compile out extended support; Create and Sniff always
//     return the empty result and nothing is ever loaded
//   - legacymmparser: resolve libmmparser.so and its bulk sniffer array
//     instead of libExtendedExtractor.so
//
// # Native Library
//
// The loader searches EXTENDED_EXTRACTOR_LIB_PATH, then
// EXTENDED_EXTRACTOR_SDK_LIB_PATH and EXTENDED_EXTRACTOR_SEARCH_PATHS,
// then locations next to the executable and the module's build/ directory,
// and finally the system linker path. Diagnostics go through pion/logging
// under the "extended" scope (enable with PION_LOG_DEBUG=extended).
package extended
