package constant

// ColorTemplate renders a picked color in every format.
// It is executed with a map of format name to rendered text plus "Swatch".
const ColorTemplate = `{{ .Swatch }} {{ bold .hex }}

  {{ faint "HEX " }}  {{ .hex }}
  {{ faint "RGB " }}  {{ .rgb }}
  {{ faint "HSL " }}  {{ .hsl }}
  {{ faint "RGBA" }}  {{ .rgba }}
`
