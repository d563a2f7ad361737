package testing

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/domain/repositories"
)

// SliceStream is a TagStream over a fixed list of events. When Err is set it
// is returned after the last event instead of io.EOF.
type SliceStream struct {
	Events []entities.TagEvent
	Err    error
	Closed bool
	pos    int
}

// Verify interface compliance
var _ repositories.TagStream = (*SliceStream)(nil)

// NewSliceStream creates a stream over events
func NewSliceStream(events ...entities.TagEvent) *SliceStream {
	return &SliceStream{Events: events}
}

// Next returns the next event
func (s *SliceStream) Next() (entities.TagEvent, error) {
	if s.pos >= len(s.Events) {
		if s.Err != nil {
			return entities.TagEvent{}, s.Err
		}
		return entities.TagEvent{}, io.EOF
	}
	event := s.Events[s.pos]
	s.pos++
	return event, nil
}

// Close marks the stream closed
func (s *SliceStream) Close() error {
	s.Closed = true
	return nil
}

// Element wraps text in an enter/exit pair
func Element(name, text string) []entities.TagEvent {
	return []entities.TagEvent{entities.Enter(name), entities.Text(text), entities.Exit(name)}
}

// NFeDocument describes the fields written by BuildNFeXML. Empty fields are
// left out of the document.
type NFeDocument struct {
	Invoice   string
	AccessKey string
	Client    string
	Carrier   string
	Quantity  string
	Info      string
}

// Info builds a complementary-info text carrying a load number and a cubicage
func Info(loadNumber, cubicage string) string {
	return fmt.Sprintf("PEDIDO 8812 CARGA: %s CUBICAGEM: %s M3 ENTREGAR EM HORARIO COMERCIAL", loadNumber, cubicage)
}

// BuildNFeXML renders a minimal authorized NF-e document
func BuildNFeXML(doc NFeDocument) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe" versao="4.00">`)
	b.WriteString(`<NFe><infNFe versao="4.00">`)
	b.WriteString(`<ide><cUF>35</cUF><natOp>VENDA</natOp><mod>55</mod></ide>`)
	b.WriteString(`<emit><CNPJ>11222333000181</CNPJ><xNome>EMITENTE INDUSTRIA LTDA</xNome></emit>`)

	b.WriteString(`<dest><CNPJ>44555666000199</CNPJ>`)
	element(&b, "xNome", doc.Client)
	b.WriteString(`<enderDest><xLgr>RUA DAS FLORES</xLgr><xMun>SAO PAULO</xMun></enderDest></dest>`)

	b.WriteString(`<transp><modFrete>0</modFrete><transporta><CNPJ>77888999000100</CNPJ>`)
	element(&b, "xNome", doc.Carrier)
	b.WriteString(`</transporta><vol>`)
	element(&b, "qVol", doc.Quantity)
	b.WriteString(`<esp>CAIXA</esp></vol></transp>`)

	b.WriteString(`<cobr><fat>`)
	element(&b, "nFat", doc.Invoice)
	b.WriteString(`<vOrig>1500.00</vOrig></fat></cobr>`)

	b.WriteString(`<infAdic>`)
	element(&b, "infCpl", doc.Info)
	b.WriteString(`</infAdic>`)

	b.WriteString(`</infNFe></NFe>`)
	b.WriteString(`<protNFe versao="4.00"><infProt>`)
	element(&b, "chNFe", doc.AccessKey)
	b.WriteString(`<cStat>100</cStat></infProt></protNFe>`)
	b.WriteString(`</nfeProc>`)
	return b.Bytes()
}

func element(b *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	b.WriteString("<" + name + ">")
	_ = xml.EscapeText(b, []byte(value))
	b.WriteString("</" + name + ">")
}

// EmailLine is one load announcement of a dispatch email
type EmailLine struct {
	LoadNumber string
	Plate      string
	Freight    string
}

// DispatchEmail renders a dispatch email announcing the given loads
func DispatchEmail(lines ...EmailLine) string {
	var b strings.Builder
	b.WriteString("Bom dia,\n\nSeguem as cargas programadas para hoje:\n\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "Carga: %s Placa: %s Frete: %s\n", line.LoadNumber, line.Plate, line.Freight)
	}
	b.WriteString("\nAtenciosamente,\nExpedicao\n")
	return b.String()
}
