// Package normalisers holds the driven.TextParser implementations that turn
// a local copy of a document into plain text. Each subpackage handles one
// document type:
//
//   - pdf: content-stream text via pdfcpu
//   - docx: non-blank paragraphs of word/document.xml
//   - pptx: non-blank shape text in slide order
//   - plaintext: UTF-8 text files
//
// ooxml holds the archive helpers shared by docx and pptx.
package normalisers
