package schema

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"
)

// Content block types.
const (
	BlockText  = "text"
	BlockImage = "image"
)

// ContentBlock is a single unit of Anthropic-style message content.
type ContentBlock struct {
	Type string  `json:"type" binding:"required,oneof=text image"`
	Text *string `json:"text,omitempty"`
}

// TextBlock returns a text content block carrying s.
func TextBlock(s string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: &s}
}

// TextLen is the character count of the block's text. Missing text counts as zero.
func (b ContentBlock) TextLen() int {
	if b.Text == nil {
		return 0
	}
	return utf8.RuneCountInString(*b.Text)
}

// ContentKind tags which case of Content is populated.
type ContentKind int

const (
	ContentMissing ContentKind = iota
	ContentText
	ContentBlocks
	ContentInvalid
)

// Content handles the union type: string | []ContentBlock
type Content struct {
	kind   ContentKind
	text   string
	blocks []ContentBlock
}

func TextContent(s string) Content {
	return Content{kind: ContentText, text: s}
}

func BlockContent(blocks ...ContentBlock) Content {
	return Content{kind: ContentBlocks, blocks: append([]ContentBlock{}, blocks...)}
}

func (c Content) Kind() ContentKind { return c.kind }

// Text returns the string case.
func (c Content) Text() (string, bool) {
	return c.text, c.kind == ContentText
}

// Blocks returns the block list case.
func (c Content) Blocks() ([]ContentBlock, bool) {
	return c.blocks, c.kind == ContentBlocks
}

// Len is the character length of the content: the string length for text,
// the sum of block text lengths for a block list.
func (c Content) Len() int {
	switch c.kind {
	case ContentText:
		return utf8.RuneCountInString(c.text)
	case ContentBlocks:
		n := 0
		for _, b := range c.blocks {
			n += b.TextLen()
		}
		return n
	default:
		return 0
	}
}

// UnmarshalJSON never fails on shape mismatches; it records ContentInvalid
// and leaves the report to validation so other fields are still checked.
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*c = Content{}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			c.kind = ContentInvalid
			return nil
		}
		*c = TextContent(s)
	case '[':
		var blocks []ContentBlock
		if err := json.Unmarshal(data, &blocks); err != nil {
			c.kind = ContentInvalid
			return nil
		}
		*c = BlockContent(blocks...)
	default:
		c.kind = ContentInvalid
	}
	return nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case ContentText:
		return json.Marshal(c.text)
	case ContentBlocks:
		return json.Marshal(c.blocks)
	default:
		return []byte("null"), nil
	}
}
