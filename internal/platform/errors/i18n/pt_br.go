package i18n

var ptBRMessages = map[Code]string{
	CodeUnknown:                    "Ocorreu um erro inesperado",
	CodeDiceSyntax:                 `Notação de dados inválida{{if .Token}} perto de "{{.Token}}"{{end}}{{if .Position}} na posição {{.Position}}{{end}}{{if .Reason}}: {{.Reason}}{{end}}`,
	CodeDiceRange:                  `{{if .Reason}}{{.Token}}: {{.Reason}}{{else}}{{.Token}} deve estar entre {{.Min}} e {{.Max}}{{if .Value}}, recebido {{.Value}}{{end}}{{end}}`,
	CodeDiceLimitExceeded:          `{{.Token}} excede o limite de {{.Limit}}`,
	CodeDiceUnsupportedCombination: `"{{.Token}}" não pode ser usado aqui{{if .Reason}}: {{.Reason}}{{end}}`,
	CodeDiceMissing:                "É necessário pelo menos um dado",
	CodeDiceInvalidSpec:            "Os dados precisam de quantidade e número de lados positivos",
	CodeNotFound:                   `{{if .Resource}}{{.Resource}}{{else}}Recurso{{end}} não encontrado`,
	CodeHistoryDisabled:            "O histórico de rolagens não está ativado",
}
