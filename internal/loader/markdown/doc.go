// Package markdown loads metadata-tagged markdown corpus files.
//
// A physical file may pack several related documents joined by a literal
// separator token of the form
//
//	<|RELATED_DOC_SEP-magic-<hash>|>
//
// The loader splits on that token without interpreting the hash, so the
// split is lossless: joining the document bodies with the token gives back
// the original bytes.
//
// Each segment carries its metadata in one of two styles:
//
//	---
//	id: M-DO-002
//	name: Blue/Green Deployments
//	domain: DevOps
//	tags: [deployment, release]
//	---
//
// or an ad-hoc section:
//
//	## Metadata
//	- **ID:** M-PM-006
//	- **Category:** Risk Management
//	| Tags | #risk #register |
//
// Front-matter is tried first; the section is the fallback.
package markdown
