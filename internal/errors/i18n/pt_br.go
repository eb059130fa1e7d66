package i18n

var ptBRCatalog = &Catalog{
	locale: "pt-BR",
	messages: map[Code]string{
		CodeRollSyntax:            "Não foi possível interpretar a rolagem perto da posição {{.Offset}}: {{.Detail}}",
		CodeRollNumberOutOfRange:  "O número {{.Value}} é grande demais",
		CodeRollTooManyGroups:     "Você pode rolar no máximo {{.Limit}} grupos de dados de uma vez",
		CodeRollDuplicateModifier: "O modificador {{.Modifier}} só pode aparecer uma vez por grupo de dados",
		CodeRollUnknownTier:       "O nível {{.Tier}} não existe",

		CodeRollZeroDice:        "Não é possível rolar zero dados",
		CodeRollDiceUpsell:      "Você não pode rolar mais de {{.Limit}} dados sem o Rollplayer Gamemaster",
		CodeRollDiceLimit:       "O limite de {{.Limit}} dados foi atingido",
		CodeRollExplosionUpsell: "Você não pode aumentar o limite de explosões além de {{.Limit}} sem o Rollplayer Gamemaster",
		CodeRollExplosionLimit:  "O limite de {{.Limit}} explosões foi atingido",
		CodeRollRerollUpsell:    "Você não pode aumentar o limite de rerrolagens além de {{.Limit}} sem o Rollplayer Gamemaster",
		CodeRollRerollLimit:     "O limite de {{.Limit}} rerrolagens foi atingido",

		CodeRollKeepNothing:    "Não é possível manter nenhum dado",
		CodeRollTargetZero:     "Os dados são numerados a partir de 1, então não existe o dado 0",
		CodeRollTargetMissing:  "Não é possível dar bônus ao dado {{.Target}}: restam apenas {{.Count}} dados",
		CodeRollDivisionByZero: "A rolagem divide por zero",
		CodeRollRangeTooWide:   "O intervalo {{.Low}}..{{.High}} é amplo demais para rolar",

		CodeRollTimeout:  "A rolagem levou mais de {{.Timeout}} e foi interrompida",
		CodeRollInternal: "Algo deu errado durante a rolagem",
	},
}
