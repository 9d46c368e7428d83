package feed

import (
	"encoding/xml"
)

const (
	// MerchantNamespace is the namespace URI shopping feed ingesters
	// expect for structured product attributes
	MerchantNamespace = "http://base.google.com/ns/1.0"
	// MerchantPrefix tags feed fields as merchant attributes
	MerchantPrefix = "g:"
	// RSSVersion is the rss format version the envelope declares
	RSSVersion = "2.0"
)

type cdata struct {
	Value string `xml:",cdata"`
}

type rssChannel struct {
	Title       cdata   `xml:"title"`
	Link        cdata   `xml:"link"`
	Description cdata   `xml:"description"`
	Items       []*Item `xml:"item"`
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Xmlns   string     `xml:"xmlns:g,attr"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

// MarshalXML writes the item's fields as child elements in document
// order. Text content is CDATA wrapped so descriptions with markup
// survive ingestion; numeric fields stay bare.
func (it *Item) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	for pair := it.fields.Oldest(); pair != nil; pair = pair.Next() {
		el := xml.StartElement{Name: xml.Name{Local: pair.Key}}
		switch v := pair.Value.(type) {
		case string:
			if err := e.EncodeElement(cdata{Value: v}, el); err != nil {
				return err
			}
		case int:
			if err := e.EncodeElement(v, el); err != nil {
				return err
			}
		default:
			if err := e.EncodeElement(cdata{Value: it.GetString(pair.Key)}, el); err != nil {
				return err
			}
		}
	}

	return e.EncodeToken(start.End())
}

// renderRSS wraps the mapped items in the channel envelope and
// serializes the document, prolog included. An empty item list still
// yields a well formed channel.
func renderRSS(opts *Options, items []*Item) ([]byte, error) {
	doc := rssDoc{
		Xmlns:   MerchantNamespace,
		Version: RSSVersion,
		Channel: rssChannel{
			Title:       cdata{Value: opts.Title},
			Link:        cdata{Value: opts.Link},
			Description: cdata{Value: opts.Description},
			Items:       items,
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), out...), nil
}
