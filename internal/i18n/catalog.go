package i18n

// Message catalogs keyed by canonical BCP 47 tag. Keys are produced by
// the domain packages; handlers localize them at the edge.
var catalog = map[string]map[string]string{
	"en-US": {
		"contact.not_found":            "contact not found",
		"contact.identifier_required":  "at least one of phone, email or document is required",
		"contact.name_required":        "name is required",
		"contact.loss_reason_required": "a loss reason is required when marking a contact as lost or discarded",
		"contact.already_client":       "contact is already a client",
		"contact.duplicate":            "a contact with this phone, email or document already exists",
		"contact.anchor_not_found":     "anchor contact not found in the target lane",
		"deal.not_found":               "deal not found",
		"deal.title_required":          "title is required",
		"deal.value_negative":          "deal value cannot be negative",
		"deal.probability_range":       "probability must be between 0 and 100",
		"deal.stage_required":          "stage cannot be empty",
		"deal.stage_reserved":          "this stage name is reserved for closed deals",
		"deal.closed":                  "deal is closed; reopen it before changing its stage",
		"deal.already_closed":          "deal is already closed",
		"deal.not_closed":              "deal is not closed",
		"import.empty_file":            "the uploaded file contains no rows",
		"common.invalid_id":            "invalid identifier",
		"common.bad_request":           "malformed request",
		"common.internal":              "internal error",
		"common.not_found":              "resource not found",
	},
	"pt-BR": {
		"contact.not_found":            "contato não encontrado",
		"contact.identifier_required":  "informe ao menos telefone, e-mail ou documento",
		"contact.name_required":        "nome é obrigatório",
		"contact.loss_reason_required": "motivo de perda é obrigatório ao marcar um contato como perdido ou descartado",
		"contact.already_client":       "o contato já é um cliente",
		"contact.duplicate":            "já existe um contato com este telefone, e-mail ou documento",
		"contact.anchor_not_found":     "contato de referência não encontrado na coluna de destino",
		"deal.not_found":               "negociação não encontrada",
		"deal.title_required":          "título é obrigatório",
		"deal.value_negative":          "o valor da negociação não pode ser negativo",
		"deal.probability_range":       "probabilidade deve estar entre 0 e 100",
		"deal.stage_required":          "etapa não pode ser vazia",
		"deal.stage_reserved":          "este nome de etapa é reservado para negociações encerradas",
		"deal.closed":                  "negociação encerrada; reabra antes de mudar a etapa",
		"deal.already_closed":          "negociação já está encerrada",
		"deal.not_closed":              "negociação não está encerrada",
		"import.empty_file":            "o arquivo enviado não contém linhas",
		"common.invalid_id":            "identificador inválido",
		"common.bad_request":           "requisição malformada",
		"common.internal":              "erro interno",
		"common.not_found":              "recurso não encontrado",
	},
	"es": {
		"contact.not_found":            "contacto no encontrado",
		"contact.identifier_required":  "se requiere al menos teléfono, correo o documento",
		"contact.name_required":        "el nombre es obligatorio",
		"contact.loss_reason_required": "se requiere un motivo de pérdida al marcar un contacto como perdido o descartado",
		"contact.already_client":       "el contacto ya es un cliente",
		"contact.duplicate":            "ya existe un contacto con este teléfono, correo o documento",
		"contact.anchor_not_found":     "contacto de referencia no encontrado en la columna de destino",
		"deal.not_found":               "negociación no encontrada",
		"deal.title_required":          "el título es obligatorio",
		"deal.value_negative":          "el valor de la negociación no puede ser negativo",
		"deal.probability_range":       "la probabilidad debe estar entre 0 y 100",
		"deal.stage_required":          "la etapa no puede estar vacía",
		"deal.stage_reserved":          "este nombre de etapa está reservado para negociaciones cerradas",
		"deal.closed":                  "negociación cerrada; reábrala antes de cambiar la etapa",
		"deal.already_closed":          "la negociación ya está cerrada",
		"deal.not_closed":              "la negociación no está cerrada",
		"import.empty_file":            "el archivo cargado no contiene filas",
		"common.invalid_id":            "identificador inválido",
		"common.bad_request":           "solicitud malformada",
		"common.internal":              "error interno",
		"common.not_found":              "recurso no encontrado",
	},
}
