package seed

import geodomain "github.com/abogados-sv/facturacion/internal/geo/domain"

func departments() []geodomain.Department {
	return []geodomain.Department{
		{Code: "01", Name: "Ahuachapán"},
		{Code: "02", Name: "Santa Ana"},
		{Code: "03", Name: "Sonsonate"},
		{Code: "04", Name: "Chalatenango"},
		{Code: "05", Name: "La Libertad"},
		{Code: "06", Name: "San Salvador"},
		{Code: "07", Name: "Cuscatlán"},
		{Code: "08", Name: "La Paz"},
		{Code: "09", Name: "Cabañas"},
		{Code: "10", Name: "San Vicente"},
		{Code: "11", Name: "Usulután"},
		{Code: "12", Name: "San Miguel"},
		{Code: "13", Name: "Morazán"},
		{Code: "14", Name: "La Unión"},
	}
}

func municipalities() []geodomain.Municipality {
	return []geodomain.Municipality{
		{DepartmentCode: "01", Code: "13", Name: "Ahuachapán"},
		{DepartmentCode: "01", Code: "14", Name: "Atiquizaya"},
		{DepartmentCode: "02", Code: "14", Name: "Santa Ana"},
		{DepartmentCode: "02", Code: "15", Name: "Chalchuapa"},
		{DepartmentCode: "02", Code: "16", Name: "Metapán"},
		{DepartmentCode: "03", Code: "17", Name: "Sonsonate"},
		{DepartmentCode: "03", Code: "18", Name: "Izalco"},
		{DepartmentCode: "04", Code: "19", Name: "Chalatenango"},
		{DepartmentCode: "04", Code: "20", Name: "Nueva Concepción"},
		{DepartmentCode: "05", Code: "21", Name: "Santa Tecla"},
		{DepartmentCode: "05", Code: "22", Name: "Antiguo Cuscatlán"},
		{DepartmentCode: "05", Code: "23", Name: "Colón"},
		{DepartmentCode: "06", Code: "14", Name: "San Salvador"},
		{DepartmentCode: "06", Code: "15", Name: "Mejicanos"},
		{DepartmentCode: "06", Code: "16", Name: "Soyapango"},
		{DepartmentCode: "06", Code: "17", Name: "Apopa"},
		{DepartmentCode: "06", Code: "18", Name: "Ilopango"},
		{DepartmentCode: "07", Code: "24", Name: "Cojutepeque"},
		{DepartmentCode: "07", Code: "25", Name: "Suchitoto"},
		{DepartmentCode: "08", Code: "26", Name: "Zacatecoluca"},
		{DepartmentCode: "08", Code: "27", Name: "Olocuilta"},
		{DepartmentCode: "09", Code: "28", Name: "Sensuntepeque"},
		{DepartmentCode: "09", Code: "29", Name: "Ilobasco"},
		{DepartmentCode: "10", Code: "30", Name: "San Vicente"},
		{DepartmentCode: "10", Code: "31", Name: "Apastepeque"},
		{DepartmentCode: "11", Code: "32", Name: "Usulután"},
		{DepartmentCode: "11", Code: "33", Name: "Jiquilisco"},
		{DepartmentCode: "11", Code: "34", Name: "Santiago de María"},
		{DepartmentCode: "12", Code: "22", Name: "San Miguel"},
		{DepartmentCode: "12", Code: "23", Name: "Chinameca"},
		{DepartmentCode: "12", Code: "24", Name: "Ciudad Barrios"},
		{DepartmentCode: "12", Code: "25", Name: "Moncagua"},
		{DepartmentCode: "13", Code: "35", Name: "San Francisco Gotera"},
		{DepartmentCode: "13", Code: "36", Name: "Jocoro"},
		{DepartmentCode: "14", Code: "37", Name: "La Unión"},
		{DepartmentCode: "14", Code: "38", Name: "Santa Rosa de Lima"},
	}
}

func economicActivities() []geodomain.EconomicActivity {
	return []geodomain.EconomicActivity{
		{Code: "69100", Description: "Actividades jurídicas"},
		{Code: "69200", Description: "Actividades de contabilidad, teneduría de libros y auditoría"},
		{Code: "41001", Description: "Construcción de edificios residenciales"},
		{Code: "46900", Description: "Venta al por mayor de otros productos"},
		{Code: "47190", Description: "Venta al por menor en comercios no especializados"},
		{Code: "49231", Description: "Transporte de carga por carretera"},
		{Code: "55101", Description: "Actividades de alojamiento para estancias cortas"},
		{Code: "56101", Description: "Restaurantes"},
		{Code: "62010", Description: "Programación informática"},
		{Code: "64190", Description: "Otros tipos de intermediación monetaria"},
		{Code: "68100", Description: "Actividades inmobiliarias con bienes propios o arrendados"},
		{Code: "70200", Description: "Actividades de consultoría de gestión"},
		{Code: "85499", Description: "Otros tipos de enseñanza"},
		{Code: "86201", Description: "Actividades de médicos y odontólogos"},
		{Code: "96020", Description: "Peluquería y otros tratamientos de belleza"},
		{Code: "10005", Description: "Empleados"},
		{Code: "10006", Description: "Comerciante"},
	}
}
